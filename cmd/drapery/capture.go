package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/drapery/internal/hooks"
	"github.com/mark3labs/drapery/internal/preview"
	"github.com/spf13/cobra"
)

var captureFlags struct {
	file  string
	room  string
	style string
	out   string
}

var captureCmd = &cobra.Command{
	Use:   "capture <fabric-id>",
	Short: "Save a preview image of a fabric in a room",
	Long: `Render the curtain preview for a catalog fabric to a PNG file, the same
image the wizard saves with 'c' on the preview step.

The file is named curtain-preview-<fabric>.png and written to the capture
directory. capture_saved hooks run afterwards.`,
	Example: "  drapery capture 6 --room bedroom --style straight",
	Args:    cobra.ExactArgs(1),
	RunE:    runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureFlags.file, "catalog", "", "Catalog YAML file (default: built-in fabrics)")
	captureCmd.Flags().StringVar(&captureFlags.room, "room", preview.Rooms[0].ID, "Room setting: "+roomIDs())
	captureCmd.Flags().StringVar(&captureFlags.style, "style", string(preview.StyleGathered), "Curtain style: gathered or straight")
	captureCmd.Flags().StringVarP(&captureFlags.out, "out", "o", "", "Output directory (default: capture_dir from config)")
}

func roomIDs() string {
	ids := make([]string, len(preview.Rooms))
	for i, r := range preview.Rooms {
		ids[i] = r.ID
	}
	return strings.Join(ids, ", ")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = captureFlags.file
	}
	dir := cfg.CaptureDir
	if captureFlags.out != "" {
		dir = captureFlags.out
	}

	c, err := catalogLoader(cfg.CatalogFile)()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	item, err := c.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("fabric %q: %w", args[0], err)
	}

	scene := preview.NewScene(item).WithRoom(captureFlags.room)
	if scene.Room.ID != captureFlags.room {
		return fmt.Errorf("unknown room %q (available: %s)", captureFlags.room, roomIDs())
	}
	switch style := preview.Style(captureFlags.style); style {
	case preview.StyleGathered, preview.StyleStraight:
		scene.Style = style
	default:
		return fmt.Errorf("unknown style %q (available: gathered, straight)", captureFlags.style)
	}

	path, err := preview.Capture(scene, dir)
	if err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	fmt.Printf("Saved %s (%s, %s)\n", path, scene.Room.Name, scene.Style.Label())

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hooksCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return fmt.Errorf("failed to load hooks: %w", err)
	}
	if hooksCfg == nil || len(hooksCfg.Hooks.CaptureSaved) == 0 {
		return nil
	}
	out, err := hooks.ExecuteAll(context.Background(), hooksCfg.Hooks.CaptureSaved, workDir, hooks.Variables{
		Fabric: item.Name,
		Path:   path,
	})
	if out = strings.TrimSpace(out); out != "" {
		fmt.Println(out)
	}
	if err != nil {
		return fmt.Errorf("capture_saved hooks: %w", err)
	}
	return nil
}
