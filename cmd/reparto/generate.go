package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/warp/reparto/config"
	"github.com/warp/reparto/engine"
	"github.com/warp/reparto/export"
	"github.com/warp/reparto/logger"
)

var generateOpts struct {
	configCSV     string
	holidaysCSV   string
	codes         string
	out           string
	holidayPreset string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one rotation from local files and write the archive",
	RunE:  generate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateOpts.configCSV, "config-csv", "", "configuration CSV (fecha_inicio, fecha_fin, ...)")
	f.StringVar(&generateOpts.holidaysCSV, "holidays-csv", "", "holiday CSV (fecha)")
	f.StringVar(&generateOpts.codes, "codes", "", "code directory, XLSX or CSV")
	f.StringVar(&generateOpts.out, "out", export.ArchiveName, "archive path")
	f.StringVar(&generateOpts.holidayPreset, "holiday-preset", "", "holiday preset merged into the file (overrides config)")
	for _, name := range []string{"config-csv", "holidays-csv", "codes"} {
		_ = generateCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("generate")

	preset := cfg.Calendar.HolidayPreset
	if cmd.Flags().Changed("holiday-preset") {
		preset = generateOpts.holidayPreset
	}

	configFile, err := os.Open(generateOpts.configCSV)
	if err != nil {
		return err
	}
	defer configFile.Close()
	holidaysFile, err := os.Open(generateOpts.holidaysCSV)
	if err != nil {
		return err
	}
	defer holidaysFile.Close()
	codesFile, err := os.Open(generateOpts.codes)
	if err != nil {
		return err
	}
	defer codesFile.Close()

	res, err := engine.RunSources(engine.Sources{
		Config:        configFile,
		Holidays:      holidaysFile,
		Codes:         codesFile,
		CodesName:     filepath.Base(generateOpts.codes),
		HolidayPreset: preset,
	})
	if err != nil {
		var se *engine.StageError
		if errors.As(err, &se) {
			log.Errorf("%s", se.Message())
		}
		return err
	}

	if err := os.WriteFile(generateOpts.out, res.Archive, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", generateOpts.out, err)
	}
	log.Infow("archive written", map[string]any{
		"run_id":              res.RunID.String(),
		"path":                generateOpts.out,
		"assignments":         len(res.Assignments),
		"next_last_used_code": res.NextLastUsed,
	})
	return nil
}
