package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"room-planner/internal/common/config"
	"room-planner/internal/common/logging"
	"room-planner/internal/planner/blueprint"
	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/models"
	"room-planner/internal/planner/planar"
	"room-planner/internal/terminal"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
)

// ============================================================
// Terminal Sketcher
// ============================================================

func main() {
	var (
		settingsPath = flag.String("settings", os.Getenv("PLANNER_SETTINGS"), "editor settings YAML")
		openPath     = flag.String("open", "", "blueprint JSON to start from")
		outPath      = flag.String("out", "", "write blueprint JSON on exit")
		svgPath      = flag.String("svg", "", "write blueprint SVG on exit")
		logLevel     = flag.String("log-level", "off", "log level (logs go to stderr)")
	)
	flag.Parse()

	if err := run(*settingsPath, *openPath, *outPath, *svgPath, *logLevel); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

func run(settingsPath, openPath, outPath, svgPath, logLevel string) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	opts := editor.OptionsFromSettings(settings)
	logger := logging.New("sketch", logLevel, false)

	bp := blueprint.New(opts.Blueprint, logger)
	if openPath != "" {
		if err := load(bp, openPath); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	ctrl := planar.NewController(bp, opts.Planar, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	runErr := terminal.NewApp(screen, ctrl, logger).Run(ctx)
	stop()
	ctrl.Close()
	screen.Fini()
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}

	if outPath != "" {
		if err := save(bp, outPath); err != nil {
			return err
		}
	}
	if svgPath != "" {
		svg, err := planar.ExportSVG(bp, 50, planar.DefaultStyle())
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}

	terminal.WriteSummary(os.Stdout, bp)
	return nil
}

func load(bp *blueprint.Blueprint, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read blueprint: %w", err)
	}
	var save models.BlueprintSave
	if err := json.Unmarshal(data, &save); err != nil {
		return fmt.Errorf("parse blueprint %s: %w", path, err)
	}

	walls := make([]models.WallLoad, len(save.Walls))
	for i, w := range save.Walls {
		walls[i] = models.WallLoad{StartCornerID: w.StartCornerID, EndCornerID: w.EndCornerID}
	}
	return bp.Import(save.Corners, walls)
}

func save(bp *blueprint.Blueprint, path string) error {
	corners, walls := bp.Export()
	data, err := json.MarshalIndent(models.BlueprintSave{
		Corners: corners,
		Walls:   walls,
		Items:   []models.ItemSave{},
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blueprint: %w", err)
	}
	return nil
}
