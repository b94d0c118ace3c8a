package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AndreasVerhoeven/condlayout/internal/scene"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the validate command's output payload.
type ValidateResult struct {
	Files  []FileValidation `json:"files"`
	Valid  int              `json:"valid"`
	Failed int              `json:"failed"`
}

// FileValidation is the validation outcome for one scene file.
type FileValidation struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scene-file-or-dir>",
		Short: "Validate scene files against the schema",
		Long: `Validate scene YAML files against the embedded CUE schema and the
structural rules (resolvable view references, known operations).

All errors are collected and reported; the command does not stop at the
first invalid file.

Example:
  condlayout validate ./scenes/sidebar.yaml
  condlayout validate ./scenes --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	files, err := collectSceneFiles(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to collect scene files", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scene files found at %s", path))
	}

	result := ValidateResult{}
	for _, file := range files {
		fv := validateFile(file)
		if fv.Valid {
			result.Valid++
		} else {
			result.Failed++
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		status := "ok"
		if result.Failed > 0 {
			status = "error"
		}
		if err := writeJSON(cmd.OutOrStdout(), CLIResponse{Status: status, Data: result}); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scene file(s) failed validation", result.Failed))
	}
	return nil
}

// validateFile runs both validation layers on one file: the CUE schema for
// shape, then the structural loader for reference resolution.
func validateFile(path string) FileValidation {
	fv := FileValidation{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		fv.Errors = append(fv.Errors, err.Error())
		return fv
	}

	for _, schemaErr := range scene.ValidateSchema(data) {
		fv.Errors = append(fv.Errors, schemaErr.Error())
	}
	if len(fv.Errors) > 0 {
		return fv
	}

	if _, err := scene.Parse(data); err != nil {
		fv.Errors = append(fv.Errors, err.Error())
		return fv
	}

	fv.Valid = true
	return fv
}

// collectSceneFiles returns the single file, or all .yaml/.yml files under a
// directory.
func collectSceneFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("path not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(p) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func outputValidateText(cmd *cobra.Command, result ValidateResult) {
	w := cmd.OutOrStdout()
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "OK   %s\n", fv.Path)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", fv.Path)
		for _, msg := range fv.Errors {
			fmt.Fprintf(w, "     %s\n", msg)
		}
	}
	fmt.Fprintf(w, "\n%d valid, %d failed\n", result.Valid, result.Failed)
}
