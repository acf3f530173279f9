package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one sample (or subsample) record
type Row = map[string]any

// ProjectDict is the raw project representation exchanged with the hub
type ProjectDict struct {
	Config        map[string]any `json:"config" yaml:"config"`
	SampleList    []Row          `json:"sample_list" yaml:"sample_list"`
	SubsampleList [][]Row        `json:"subsample_list,omitempty" yaml:"subsample_list,omitempty"`
}

// UnmarshalJSON accepts subsample_list as a single table or a list of tables
func (p *ProjectDict) UnmarshalJSON(data []byte) error {
	var raw struct {
		Config        map[string]any  `json:"config"`
		SampleList    []Row           `json:"sample_list"`
		SubsampleList json.RawMessage `json:"subsample_list"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Config == nil {
		return fmt.Errorf("project is missing config")
	}
	p.Config = raw.Config
	p.SampleList = raw.SampleList
	p.SubsampleList = nil

	trimmed := bytes.TrimSpace(raw.SubsampleList)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var tables [][]Row
	if err := json.Unmarshal(trimmed, &tables); err == nil {
		p.SubsampleList = tables
		return nil
	}
	var single []Row
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return fmt.Errorf("subsample_list: %w", err)
	}
	if len(single) > 0 {
		p.SubsampleList = [][]Row{single}
	}
	return nil
}

// Name returns the project name from its config
func (p *ProjectDict) Name() string {
	return configString(p.Config, "name")
}

// Description returns the project description from its config
func (p *ProjectDict) Description() string {
	return configString(p.Config, "description")
}

func configString(config map[string]any, key string) string {
	if v, ok := config[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// ProjectUploadData is the push request body
type ProjectUploadData struct {
	PEPDict   ProjectDict `json:"pep_dict"`
	Tag       string      `json:"tag"`
	IsPrivate bool        `json:"is_private"`
	Overwrite bool        `json:"overwrite"`
}

// NewProjectUploadData fills in defaults for optional fields
func NewProjectUploadData(project ProjectDict, tag string, isPrivate, overwrite bool) ProjectUploadData {
	return ProjectUploadData{
		PEPDict:   project,
		Tag:       normalizeTag(tag),
		IsPrivate: isPrivate,
		Overwrite: overwrite,
	}
}

// ProjectAnnotation describes one project in a search result
type ProjectAnnotation struct {
	Namespace       string `json:"namespace"`
	Name            string `json:"name"`
	Tag             string `json:"tag"`
	IsPrivate       bool   `json:"is_private"`
	NumberOfSamples int    `json:"number_of_samples"`
	Description     string `json:"description"`
	LastUpdateDate  string `json:"last_update_date"`
	SubmissionDate  string `json:"submission_date"`
	Digest          string `json:"digest"`
	PEPSchema       string `json:"pep_schema"`
}

// SearchResult is a page of projects in a namespace
type SearchResult struct {
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Items  []ProjectAnnotation `json:"items"`
}

// DeviceCodeChallenge is the identity provider's answer to a device code request
type DeviceCodeChallenge struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in,omitempty"`
	Interval        int    `json:"interval,omitempty"`
}

func (c DeviceCodeChallenge) validate() error {
	var missing []string
	if c.DeviceCode == "" {
		missing = append(missing, "device_code")
	}
	if c.UserCode == "" {
		missing = append(missing, "user_code")
	}
	if c.VerificationURI == "" {
		missing = append(missing, "verification_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %v", missing)
	}
	return nil
}

// AccessToken is the identity provider's token for an authorized device
type AccessToken struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
}

type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Interval         int    `json:"interval,omitempty"`
}

type sessionTokenResponse struct {
	JWTToken string `json:"jwt_token"`
}
