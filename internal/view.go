package internal

import (
	"context"
	"fmt"
	"net/http"
)

// ViewClient manages named subsets of a project's samples
type ViewClient struct {
	hub *Client
}

func (v *ViewClient) url(namespace, name, viewName string, sampleName ...string) string {
	segments := []string{projectsPath, namespace, name, "views", viewName}
	return v.hub.cfg.HubURL(append(segments, sampleName...)...)
}

// Get returns the view as a project containing only its samples
func (v *ViewClient) Get(ctx context.Context, namespace, name, tag, viewName string) (*ProjectDict, error) {
	params := tagParams(tag)
	params.Set("raw", "true")

	resp, err := v.hub.send(ctx, http.MethodGet, v.url(namespace, name, viewName), params, nil)
	if err != nil {
		return nil, err
	}

	table := StatusTable{
		Op:      fmt.Sprintf("view get %s/%s", projectRef(namespace, name, tag), viewName),
		Success: http.StatusOK,
		Errors: map[int]StatusRule{
			http.StatusNotFound: {KindNotFound, "View does not exist, or you are unauthorized."},
		},
	}
	if err := table.Check(resp); err != nil {
		return nil, err
	}

	var project ProjectDict
	if err := DecodeJSON(table.Op, resp, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create makes a view from the named samples
func (v *ViewClient) Create(ctx context.Context, namespace, name, tag, viewName string, sampleNames []string) error {
	if sampleNames == nil {
		sampleNames = []string{}
	}
	resp, err := v.hub.send(ctx, http.MethodPost, v.url(namespace, name, viewName), tagParams(tag), sampleNames)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("view create %s/%s", ref, viewName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound: {KindNotFound, fmt.Sprintf("Project '%s' or one of the samples does not exist.", ref)},
			http.StatusConflict: {KindConflict, fmt.Sprintf("View '%s' already exists in the project.", viewName)},
		},
	}
	return table.Check(resp)
}

// Delete removes a view; its samples stay in the project
func (v *ViewClient) Delete(ctx context.Context, namespace, name, tag, viewName string) error {
	resp, err := v.hub.send(ctx, http.MethodDelete, v.url(namespace, name, viewName), tagParams(tag), nil)
	if err != nil {
		return err
	}

	table := StatusTable{
		Op:      fmt.Sprintf("view delete %s/%s", projectRef(namespace, name, tag), viewName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound:     {KindNotFound, "View does not exists, or you are unauthorized."},
			http.StatusUnauthorized: {KindUnauthorized, "You are unauthorized to delete this view."},
		},
	}
	return table.Check(resp)
}

// AddSample puts an existing project sample into a view
func (v *ViewClient) AddSample(ctx context.Context, namespace, name, tag, viewName, sampleName string) error {
	resp, err := v.hub.send(ctx, http.MethodPost, v.url(namespace, name, viewName, sampleName), tagParams(tag), nil)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("view add-sample %s/%s", ref, viewName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound: {KindNotFound, fmt.Sprintf("Sample '%s' or project %s does not exist.", sampleName, ref)},
			http.StatusConflict: {KindConflict, fmt.Sprintf("Sample '%s' already exists in the view.", sampleName)},
		},
	}
	return table.Check(resp)
}

// RemoveSample takes a sample out of a view
func (v *ViewClient) RemoveSample(ctx context.Context, namespace, name, tag, viewName, sampleName string) error {
	resp, err := v.hub.send(ctx, http.MethodDelete, v.url(namespace, name, viewName, sampleName), tagParams(tag), nil)
	if err != nil {
		return err
	}

	ref := projectRef(namespace, name, tag)
	table := StatusTable{
		Op:      fmt.Sprintf("view remove-sample %s/%s", ref, viewName),
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusNotFound:     {KindNotFound, fmt.Sprintf("Sample '%s' or project %s does not exist.", sampleName, ref)},
			http.StatusUnauthorized: {KindUnauthorized, "You are unauthorized to remove this sample from the view."},
		},
	}
	return table.Check(resp)
}
