package internal

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strconv"
)

// LoadProject downloads a project's raw representation without touching the disk
func (c *Client) LoadProject(ctx context.Context, rp RegistryPath) (*ProjectDict, error) {
	params := tagParams(rp.Tag)
	params.Set("raw", "true")

	resp, err := c.send(ctx, http.MethodGet, c.cfg.HubURL(projectsPath, rp.Namespace, rp.Item), params, nil)
	if err != nil {
		return nil, err
	}

	table := StatusTable{
		Op:      "pull " + rp.String(),
		Success: http.StatusOK,
		Errors: map[int]StatusRule{
			http.StatusNotFound:            {KindNotFound, "File does not exist, or you are unauthorized."},
			http.StatusInternalServerError: {KindInternalError, "Internal server error. Unexpected return value."},
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

// PullOptions controls where and how a pulled project is written
type PullOptions struct {
	SaveOptions
}

// Pull downloads a project and materializes it on disk, returning the written paths
func (c *Client) Pull(ctx context.Context, registryPath string, opts PullOptions) ([]string, error) {
	rp, err := ParseRegistryPath(registryPath)
	if err != nil {
		return nil, err
	}
	project, err := c.LoadProject(ctx, rp)
	if err != nil {
		return nil, err
	}
	return NewMaterializer().Save(project, rp, opts.SaveOptions)
}

// PushOptions are the push flags
type PushOptions struct {
	Namespace string
	Name      string
	Tag       string
	IsPrivate bool
	Force     bool
}

// Push loads a local PEP (config YAML or sample CSV) and uploads it. The
// returned path names the hosted project; it is set whenever the upload was attempted.
func (c *Client) Push(ctx context.Context, path string, opts PushOptions) (RegistryPath, error) {
	project, err := LoadLocalProject(path)
	if err != nil {
		return RegistryPath{}, err
	}
	if opts.Name == "" {
		opts.Name = project.Name()
	}
	rp, err := ParseRegistryPath(fmt.Sprintf("%s/%s:%s", opts.Namespace, opts.Name, normalizeTag(opts.Tag)))
	if err != nil {
		return RegistryPath{}, err
	}
	return rp, c.Upload(ctx, project, opts)
}

// Upload sends a project to the hub under namespace/name:tag
func (c *Client) Upload(ctx context.Context, project *ProjectDict, opts PushOptions) error {
	upload := *project
	if opts.Name != "" {
		// the hub names the project after its config; the caller's map stays untouched
		upload.Config = maps.Clone(project.Config)
		if upload.Config == nil {
			upload.Config = map[string]any{}
		}
		upload.Config["name"] = opts.Name
	}
	data := NewProjectUploadData(upload, opts.Tag, opts.IsPrivate, opts.Force)

	resp, err := c.send(ctx, http.MethodPost, c.cfg.HubURL(namespacesPath, opts.Namespace, "projects", "json"), nil, data)
	if err != nil {
		return err
	}

	ref := projectRef(opts.Namespace, upload.Name(), data.Tag)
	table := StatusTable{
		Op:      "push " + ref,
		Success: http.StatusAccepted,
		Errors: map[int]StatusRule{
			http.StatusConflict:     {KindConflict, "Project already exists. Set force to overwrite project."},
			http.StatusUnauthorized: {KindUnauthorized, "Unauthorized! Failure in uploading project."},
			http.StatusForbidden:    {KindForbidden, "User does not have permission to write to this namespace!"},
		},
	}
	return table.Check(resp)
}

// SearchOptions filter a namespace search
type SearchOptions struct {
	Query     string
	Limit     int
	Offset    int
	FilterBy  string // "submission_date" or "last_update_date"
	StartDate string // YYYY/MM/DD
	EndDate   string
}

// Search lists projects in a namespace
func (c *Client) Search(ctx context.Context, namespace string, opts SearchOptions) (*SearchResult, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(max(opts.Offset, 0)))
	if opts.FilterBy != "" {
		params.Set("filter_by", opts.FilterBy)
		if opts.StartDate != "" {
			params.Set("filter_start_date", opts.StartDate)
		}
		if opts.EndDate != "" {
			params.Set("filter_end_date", opts.EndDate)
		}
	}

	resp, err := c.send(ctx, http.MethodGet, c.cfg.HubURL(namespacesPath, namespace, "projects"), params, nil)
	if err != nil {
		return nil, err
	}

	table := StatusTable{
		Op:      "search " + namespace,
		Success: http.StatusOK,
		Errors: map[int]StatusRule{
			http.StatusNotFound:            {KindNotFound, "Namespace does not exist."},
			http.StatusUnprocessableEntity: {KindUnprocessable, "Invalid search parameters."},
			http.StatusInternalServerError: {KindInternalError, "Internal server error."},
		},
	}
	if err := table.Check(resp); err != nil {
		return nil, err
	}

	var result SearchResult
	if err := DecodeJSON(table.Op, resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
