package main

import (
	"fmt"

	detectionService "github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/detection/service"
	"github.com/spf13/cobra"
)

var detectLive bool

var detectCmd = &cobra.Command{
	Use:     "detectar",
	Aliases: []string{"detect"},
	Short:   "Submit media to the detection backend",
}

var detectImageCmd = &cobra.Command{
	Use:   "imagen <file>",
	Short: "Detect known individuals in an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upload, err := readUpload(args[0])
		if err != nil {
			return err
		}

		gw := newGateway()
		result, err := gw.DetectInImage(cmd.Context(), upload)
		if err != nil {
			return fmt.Errorf("image detection failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), detectionService.ProjectImage(gw.Root(), *result))
	},
}

var detectVideoCmd = &cobra.Command{
	Use:   "video <file>",
	Short: "Detect known individuals in a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upload, err := readUpload(args[0])
		if err != nil {
			return err
		}

		gw := newGateway()
		result, err := gw.DetectInVideo(cmd.Context(), upload, detectLive)
		if err != nil {
			return fmt.Errorf("video detection failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), detectionService.ProjectVideo(gw.Root(), *result))
	},
}

func init() {
	detectVideoCmd.Flags().BoolVar(&detectLive, "live", false, "ask the backend for live processing")

	detectCmd.AddCommand(detectImageCmd, detectVideoCmd)
	rootCmd.AddCommand(detectCmd)
}
