// Where: internal/config/credentials.go
// What: Credentials file bootstrap and inspection.
// Why: Gate container launches on a populated .env without validating contents.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// CredentialsFile is the well-known name of the credentials file.
const CredentialsFile = ".env"

// Required credential keys, in template order.
var CredentialKeys = []string{
	"AZURE_OPENAI_ENDPOINT",
	"AZURE_OPENAI_API_KEY",
	"AZURE_OPENAI_DEPLOYMENT",
}

// credentialsTemplate is what gets written when no .env exists. Exactly the
// three documented keys, placeholder values the env command recognizes.
const credentialsTemplate = `AZURE_OPENAI_ENDPOINT=https://your-resource.openai.azure.com/
AZURE_OPENAI_API_KEY=your-api-key-here
AZURE_OPENAI_DEPLOYMENT=your-deployment-name
`

var placeholderValues = map[string]bool{
	"https://your-resource.openai.azure.com/": true,
	"your-api-key-here":                       true,
	"your-deployment-name":                    true,
}

// ErrCredentialsCreated signals that a template .env was just written and the
// user must edit it before re-running. It is a deliberate early exit, not a
// recoverable failure.
var ErrCredentialsCreated = errors.New("credentials template created; edit .env and re-run")

// EnsureCredentials checks for the credentials file in projectDir. If absent,
// it writes the template and returns ErrCredentialsCreated. If present, the
// file is loaded into the process environment and no content validation is
// performed.
func EnsureCredentials(projectDir string) error {
	path := filepath.Join(projectDir, CredentialsFile)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if writeErr := os.WriteFile(path, []byte(credentialsTemplate), 0o600); writeErr != nil {
			return fmt.Errorf("write credentials template: %w", writeErr)
		}
		return ErrCredentialsCreated
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	return nil
}

// CredentialStatus describes the state of the credentials file for reporting.
type CredentialStatus struct {
	Present      bool
	Values       map[string]string
	Missing      []string
	Placeholders []string
}

// Configured reports whether all keys are present with non-placeholder values.
func (s CredentialStatus) Configured() bool {
	return s.Present && len(s.Missing) == 0 && len(s.Placeholders) == 0
}

// InspectCredentials reads the credentials file and classifies each required
// key as set, missing, or still a placeholder. Used by the env command only;
// the up path never validates contents.
func InspectCredentials(projectDir string) (CredentialStatus, error) {
	path := filepath.Join(projectDir, CredentialsFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return CredentialStatus{Missing: append([]string{}, CredentialKeys...)}, nil
		}
		return CredentialStatus{}, err
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return CredentialStatus{}, fmt.Errorf("parse credentials: %w", err)
	}

	status := CredentialStatus{Present: true, Values: values}
	for _, key := range CredentialKeys {
		value := strings.TrimSpace(values[key])
		switch {
		case value == "":
			status.Missing = append(status.Missing, key)
		case placeholderValues[value]:
			status.Placeholders = append(status.Placeholders, key)
		}
	}
	return status, nil
}

// MaskSecret renders a secret for display, keeping only the last four
// characters visible.
func MaskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	tail := value
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return strings.Repeat("*", 20) + "..." + tail
}
