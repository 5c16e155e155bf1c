package cmd

import (
	"copkg/logging"
	"encoding/json"
	"fmt"
	"os"
)

// Global variables for JSON mode
var (
	jsonOutput bool // Flag for JSON output
	jsonLogs   bool // Flag for JSON logs
)

// osExit is replaced in tests
var osExit = os.Exit

// CommandOutput structure for JSON output
type CommandOutput struct {
	InstallDir   string   `json:"installDir,omitempty"`
	DownloadFile string   `json:"downloadFile,omitempty"`
	DownloadURL  string   `json:"downloadUrl,omitempty"`
	Installed    string   `json:"installed,omitempty"`
	Versions     []string `json:"versions,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// OutputJSON handles JSON output for all commands
func OutputJSON(data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	logging.LogOutput("%s", jsonData)
	return nil
}

// ExitWithError reports err in the selected output mode, releases the log
// file and exits
func ExitWithError(err error) {
	if jsonOutput {
		_ = OutputJSON(CommandOutput{Error: err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	}
	logging.Close()
	osExit(1)
}
