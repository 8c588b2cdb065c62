package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finchat/finchat"
	"github.com/finchat/finchat/core"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		m, err := buildModel(cfg)
		if err != nil {
			return err
		}

		fc, err := finchat.New(m, func(o *finchat.Options) {
			o.EmptyRetryLimit = cfg.Orchestration.EmptyRetryLimit
			o.MaxToolParallelism = cfg.Orchestration.MaxToolParallelism
			o.ModelTimeout = cfg.Model.Timeout.Std()
			o.ToolTimeout = cfg.Orchestration.ToolTimeout.Std()
			o.EventBufferSize = cfg.Orchestration.EventBufferSize
			o.Logger = buildLogger(cfg)
		})
		if err != nil {
			return err
		}

		sessionID, err := fc.StartSession(cfg.Model.SystemPrompt)
		if err != nil {
			return err
		}

		fmt.Println("finchat - type a question, 'clear' to reset, 'exit' to quit")
		reader := bufio.NewReader(os.Stdin)

		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			text := strings.TrimSpace(line)

			switch text {
			case "":
				continue
			case "exit", "quit":
				fc.CloseSession(sessionID)
				return nil
			case "clear":
				if err := fc.ClearSession(sessionID); err != nil {
					return err
				}
				fmt.Println("(history cleared)")
				continue
			}

			events, err := fc.SubmitMessage(cmd.Context(), sessionID, text)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}

			for ev := range events {
				switch e := ev.(type) {
				case core.ToolInvocationAnnounced:
					fmt.Printf("[calling %s]\n", e.Name)
				case core.Completed:
					fmt.Println(e.FinalText)
				case core.Failed:
					fmt.Printf("turn failed (%s): %v\n", e.Reason, e.Err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
