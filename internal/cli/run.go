package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/extract"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/pipeline"
)

var (
	inputPath   string
	docsDir     string
	outDir      string
	optionsPath string
	personaFlag string
	jobFlag     string
)

// inputConfig mirrors the batch input JSON: the document list plus the
// persona and job-to-be-done.
type inputConfig struct {
	Documents []struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
	} `json:"documents"`
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rank a document set for a persona and job",
	Long: `Run the relevance pipeline over a document set. With --input, the
document list, persona, and job come from the input JSON; without it,
every supported file in --docs is processed and --persona/--job are
required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

		opts, err := config.LoadOptions(optionsPath)
		if err != nil {
			return err
		}

		query, filenames, err := resolveInputs()
		if err != nil {
			return err
		}

		inputs, missing, err := loadInputs(filenames)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing document files in %s: %s", docsDir, strings.Join(missing, ", "))
		}

		fmt.Fprint(cmd.OutOrStdout(), renderBanner(query, len(inputs)))

		engine := pipeline.NewEngine(log, 5, 8, true)
		start := time.Now()
		res, err := engine.Execute(context.Background(), pipeline.Request{
			Query:   query,
			Inputs:  inputs,
			Options: opts,
		}, func(phase string) {
			log.Info("pipeline", "phase", phase)
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		consolidated := output.Consolidate(res, opts.SurfacedSections)
		outPath := filepath.Join(outDir, "challenge1b_output.json")
		if err := writeJSON(outPath, consolidated); err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), renderSummary(res, consolidated, outPath, elapsed))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Input JSON configuration file")
	runCmd.Flags().StringVar(&docsDir, "docs", "pdfs", "Directory containing the document files")
	runCmd.Flags().StringVar(&outDir, "out", "output", "Directory for the output JSON")
	runCmd.Flags().StringVar(&optionsPath, "options", "persadoc.yaml", "Pipeline options YAML file (optional)")
	runCmd.Flags().StringVar(&personaFlag, "persona", "", "Persona/role (overrides input config)")
	runCmd.Flags().StringVar(&jobFlag, "job", "", "Job-to-be-done (overrides input config)")
	rootCmd.AddCommand(runCmd)
}

// resolveInputs determines the query and document list from the input
// config, flags, and environment, in that order of precedence.
func resolveInputs() (document.Query, []string, error) {
	persona := personaFlag
	if persona == "" {
		persona = os.Getenv("PERSONA")
	}
	job := jobFlag
	if job == "" {
		job = os.Getenv("JOB")
	}

	var filenames []string
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return document.Query{}, nil, fmt.Errorf("read input config: %w", err)
		}
		var cfg inputConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return document.Query{}, nil, fmt.Errorf("parse input config: %w", err)
		}
		if persona == "" {
			persona = cfg.Persona.Role
		}
		if job == "" {
			job = cfg.JobToBeDone.Task
		}
		for _, d := range cfg.Documents {
			filenames = append(filenames, d.Filename)
		}
	} else {
		// Auto mode: take every supported file in the docs directory.
		entries, err := os.ReadDir(docsDir)
		if err != nil {
			return document.Query{}, nil, fmt.Errorf("read docs dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !extract.IsSupportedExtension(e.Name()) {
				continue
			}
			filenames = append(filenames, e.Name())
		}
		sort.Strings(filenames)
	}

	if persona == "" || job == "" {
		return document.Query{}, nil, fmt.Errorf("persona and job are required (via --input, flags, or PERSONA/JOB env)")
	}
	if len(filenames) == 0 {
		return document.Query{}, nil, fmt.Errorf("no documents to process")
	}
	return document.Query{Persona: persona, Job: job}, filenames, nil
}

// loadInputs reads each document file, collecting missing filenames
// instead of failing on the first.
func loadInputs(filenames []string) ([]pipeline.Input, []string, error) {
	var inputs []pipeline.Input
	var missing []string
	for _, name := range filenames {
		path := filepath.Join(docsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, name)
				continue
			}
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, pipeline.Input{Filename: name, Data: data})
	}
	return inputs, missing, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
