package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/pulse/internal/baidu"
	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newASRCmd(app *App) *cobra.Command {
	var lang string
	var ask bool

	cmd := &cobra.Command{
		Use:   "asr <audio-file>",
		Short: "Transcribe a 16 kHz mono WAV or raw PCM recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Speech == nil {
				return errors.New("未配置语音识别")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening audio: %w", err)
			}
			defer f.Close()
			pcm, err := baidu.ReadPCM(f)
			if err != nil {
				return err
			}

			text, err := app.Speech.Recognize(context.Background(), pcm, lang)
			if err != nil {
				return fmt.Errorf("语音识别失败: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, text)
			if !ask {
				return nil
			}

			fmt.Fprintln(out)
			return newChatAskCmd(app).RunE(cmd, []string{text})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "zh-CN", "Language: zh-CN or en-US")
	cmd.Flags().BoolVar(&ask, "ask", false, "Send the transcript to the assistant")

	return cmd
}

func newFoodCmd(app *App) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "food <image>",
		Short: "Identify the dish in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dishes == nil {
				return errors.New("未配置菜品识别")
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			guesses, err := app.Dishes.RecognizeDish(context.Background(), base64.StdEncoding.EncodeToString(raw), top)
			if err != nil {
				return fmt.Errorf("菜品识别失败: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDishes(guesses))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", baidu.DefaultTopN, "Number of candidates")

	return cmd
}
