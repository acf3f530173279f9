package internal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// SampleClient manages single samples of a hosted project
type SampleClient struct {
	hub *Client
}

func (s *SampleClient) url(namespace, name, sampleName string) string {
	return s.hub.cfg.HubURL(projectsPath, namespace, name, "samples", sampleName)
}

// Get returns one sample's attributes
func (s *SampleClient) Get(ctx context.Context, namespace, name, tag, sampleName string) (Row, error) {
	resp, err := s.hub.send(ctx, http.MethodGet, s.url(namespace, name, sampleName), tagParams(tag), nil)
	if err != nil {
		return nil, err
	}

	table := StatusTable{
		Op:      fmt.Sprintf("sample get %s/%s", projectRef(namespace, name, tag), sampleName),
		Success: http.StatusOK,
		Errors: map[int]StatusRule{
			http.StatusNotFound:            {KindNotFound, "Sample does not exist."},
			http.StatusInternalServerError: {KindInternalError, "Internal server error."},
		},
	}
	if err := table.Check(resp); err != nil {
		return nil, err
	}

	var sample Row
	if err := DecodeJSON(table.Op, resp, &sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// Create adds a sample, replacing an existing one only with overwrite
func (s *SampleClient) Create(ctx context.Context, namespace, name, tag, sampleName string, sample Row, overwrite bool) error {
	params := tagParams(tag)
	params.Set("overwrite", strconv.FormatBool(overwrite))

	resp, err := s.hub.send(ctx, http.MethodPost, s.url(namespace, name, sampleName), params, sample)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("sample create %s/%s", ref, sampleName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound: {KindNotFound, fmt.Sprintf("Project '%s' does not exist.", ref)},
			http.StatusConflict: {KindConflict, fmt.Sprintf("Sample '%s' already exists. Set overwrite to overwrite sample.", sampleName)},
		},
	}
	return table.Check(resp)
}

// Update patches the given attributes of a sample
func (s *SampleClient) Update(ctx context.Context, namespace, name, tag, sampleName string, sample Row) error {
	resp, err := s.hub.send(ctx, http.MethodPatch, s.url(namespace, name, sampleName), tagParams(tag), sample)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("sample update %s/%s", ref, sampleName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound: {KindNotFound, fmt.Sprintf("Sample '%s' or project %s does not exist.", sampleName, ref)},
		},
	}
	return table.Check(resp)
}

// Remove deletes a sample from the project
func (s *SampleClient) Remove(ctx context.Context, namespace, name, tag, sampleName string) error {
	resp, err := s.hub.send(ctx, http.MethodDelete, s.url(namespace, name, sampleName), tagParams(tag), nil)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("sample remove %s/%s", ref, sampleName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound:     {KindNotFound, fmt.Sprintf("Sample '%s' or project %s does not exist.", sampleName, ref)},
			http.StatusUnauthorized: {KindUnauthorized, "You are unauthorized to delete this sample."},
		},
	}
	return table.Check(resp)
}
