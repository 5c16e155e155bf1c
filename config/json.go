package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonConfiguration is the canonical on-disk shape. The download dir has
// no field here, so it is never written and ignored when present.
type jsonConfiguration struct {
	PackageDir     *string `json:"packageDir"`
	PackageBaseURL *string `json:"packageBaseUrl"`
	Username       *string `json:"username,omitempty"`
	Password       *string `json:"password,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (c Configuration) MarshalJSON() ([]byte, error) {
	packageDir := c.packageDir
	packageBaseURL := c.packageBaseURL
	return json.Marshal(jsonConfiguration{
		PackageDir:     &packageDir,
		PackageBaseURL: &packageBaseURL,
		Username:       c.username.Ptr(),
		Password:       c.password.Ptr(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Configuration) UnmarshalJSON(data []byte) error {
	parsed, err := decode(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ToJSON returns the indented JSON representation. On failure the string
// is empty and the error matches ErrEncode.
func (c Configuration) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", &Error{Op: "encode", Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}
	return string(data), nil
}

// FromJSON parses a Configuration from its JSON representation
func FromJSON(text string) (Configuration, error) {
	c, err := decode([]byte(text))
	if err != nil {
		return Configuration{}, &Error{Op: "decode", Err: err}
	}
	return c, nil
}

// FromFile parses a Configuration from a JSON file. Read failures match
// ErrRead and keep the underlying fs error; content failures match
// ErrParse or ErrMissingField.
func FromFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, &Error{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", ErrRead, err)}
	}
	c, err := decode(data)
	if err != nil {
		return Configuration{}, &Error{Op: "decode", Path: path, Err: err}
	}
	return c, nil
}

// WriteFile writes the JSON representation to path. The file may hold a
// password, so it is created with mode 0600.
func (c Configuration) WriteFile(path string) error {
	text, err := c.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0600); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

func decode(data []byte) (Configuration, error) {
	var jc jsonConfiguration
	if err := json.Unmarshal(data, &jc); err != nil {
		return Configuration{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if jc.PackageDir == nil {
		return Configuration{}, fmt.Errorf("%w: packageDir", ErrMissingField)
	}
	if jc.PackageBaseURL == nil {
		return Configuration{}, fmt.Errorf("%w: packageBaseUrl", ErrMissingField)
	}
	return New(*jc.PackageDir, *jc.PackageBaseURL, OptionalFromPtr(jc.Username), OptionalFromPtr(jc.Password)), nil
}
