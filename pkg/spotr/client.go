package spotr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/misfitdev/spotr-mcp/pkg/config"
)

const apiPrefix = "/api/v1"

// Client calls the Spotr REST API. Every method performs exactly one HTTP
// request; there are no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return NewClientWithConfig(cfg.BaseURL, cfg.APIKey, &http.Client{Timeout: cfg.HTTPTimeout})
}

func NewClientWithConfig(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("spotr base URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid SPOTR_BASE_URL: %w", err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("spotr api key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

func (c *Client) FetchAllMovements(ctx context.Context) (MovementLibrary, error) {
	var raw struct {
		Movements MovementLibrary `json:"movements"`
	}
	if err := c.do(ctx, http.MethodGet, "/movements", nil, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Movements == nil {
		raw.Movements = MovementLibrary{}
	}
	return raw.Movements, nil
}

func (c *Client) FetchMovementsByGroup(ctx context.Context, group MuscleGroup) ([]Movement, error) {
	if strings.TrimSpace(string(group)) == "" {
		return nil, fmt.Errorf("muscle group is required")
	}
	var raw struct {
		Movements MovementLibrary `json:"movements"`
	}
	q := url.Values{"muscle_group": {string(group)}}
	if err := c.do(ctx, http.MethodGet, "/movements", q, nil, &raw); err != nil {
		return nil, err
	}
	movements := raw.Movements[group]
	if movements == nil {
		movements = []Movement{}
	}
	return movements, nil
}

// searchParams is the query string of GET /movements/search.
type searchParams struct {
	Query       string `url:"query,omitempty"`
	MuscleGroup string `url:"muscle_group,omitempty"`
	Limit       int    `url:"limit"`
}

func (c *Client) SearchMovements(ctx context.Context, mq MovementQuery) ([]Movement, error) {
	q, err := query.Values(searchParams{
		Query:       strings.TrimSpace(mq.Query),
		MuscleGroup: strings.TrimSpace(mq.MuscleGroup),
		Limit:       mq.EffectiveLimit(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	var raw struct {
		Movements []Movement `json:"movements"`
	}
	if err := c.do(ctx, http.MethodGet, "/movements/search", q, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Movements == nil {
		raw.Movements = []Movement{}
	}
	return raw.Movements, nil
}

func (c *Client) FetchAllPrograms(ctx context.Context) ([]ProgramSummary, error) {
	var raw struct {
		Programs []ProgramSummary `json:"programs"`
	}
	if err := c.do(ctx, http.MethodGet, "/programs", nil, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Programs == nil {
		raw.Programs = []ProgramSummary{}
	}
	return raw.Programs, nil
}

func (c *Client) FetchProgram(ctx context.Context, id string) (*Program, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("program id is required")
	}
	var out Program
	if err := c.do(ctx, http.MethodGet, "/programs/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProgram(ctx context.Context, in *ProgramInput) (*Program, error) {
	if in == nil {
		return nil, fmt.Errorf("program is required")
	}
	var out Program
	if err := c.do(ctx, http.MethodPost, "/programs", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProgram(ctx context.Context, id string, update *ProgramUpdate) (*Program, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("program id is required")
	}
	if update == nil {
		return nil, fmt.Errorf("update is required")
	}
	var out Program
	if err := c.do(ctx, http.MethodPut, "/programs/"+url.PathEscape(id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProgram(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("program id is required")
	}
	return c.do(ctx, http.MethodDelete, "/programs/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) FetchAllBlueprints(ctx context.Context) ([]BlueprintSummary, error) {
	var raw struct {
		Blueprints []BlueprintSummary `json:"blueprints"`
	}
	if err := c.do(ctx, http.MethodGet, "/blueprints", nil, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Blueprints == nil {
		raw.Blueprints = []BlueprintSummary{}
	}
	return raw.Blueprints, nil
}

func (c *Client) FetchBlueprint(ctx context.Context, id string) (*Blueprint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("blueprint id is required")
	}
	var out Blueprint
	if err := c.do(ctx, http.MethodGet, "/blueprints/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBlueprint(ctx context.Context, in *BlueprintInput) (*Blueprint, error) {
	if in == nil {
		return nil, fmt.Errorf("blueprint is required")
	}
	var out Blueprint
	if err := c.do(ctx, http.MethodPost, "/blueprints", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProgramFromBlueprint(ctx context.Context, blueprintID string, in *BlueprintProgramInput) (*Program, error) {
	if strings.TrimSpace(blueprintID) == "" {
		return nil, fmt.Errorf("blueprint id is required")
	}
	if in == nil {
		return nil, fmt.Errorf("program request is required")
	}
	var out Program
	path := "/blueprints/" + url.PathEscape(blueprintID) + "/programs"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchCoach(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("coach id is required")
	}
	return c.document(ctx, "/coaches/"+url.PathEscape(id))
}

func (c *Client) FetchCoachStyle(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("coach id is required")
	}
	return c.document(ctx, "/coaches/"+url.PathEscape(id)+"/style")
}

func (c *Client) FetchClient(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("client id is required")
	}
	return c.document(ctx, "/clients/"+url.PathEscape(id))
}

func (c *Client) FetchClientProgress(ctx context.Context, clientID, programID string) (Document, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(programID) == "" {
		return nil, fmt.Errorf("client id and program id are required")
	}
	return c.document(ctx, progressPath(clientID, programID)+"/progress")
}

func (c *Client) CreateProgressAnalysis(ctx context.Context, in *ProgressAnalysisInput) (*ProgressAnalysis, error) {
	if in == nil {
		return nil, fmt.Errorf("analysis is required")
	}
	var out ProgressAnalysis
	if err := c.do(ctx, http.MethodPost, progressPath(in.ClientID, in.ProgramID)+"/analyses", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchProgressAnalysis(ctx context.Context, id string) (*ProgressAnalysis, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("analysis id is required")
	}
	var out ProgressAnalysis
	if err := c.do(ctx, http.MethodGet, "/analyses/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEvaluation(ctx context.Context, in *EvaluationInput) (*Evaluation, error) {
	if in == nil {
		return nil, fmt.Errorf("evaluation is required")
	}
	var out Evaluation
	if err := c.do(ctx, http.MethodPost, "/evaluations", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchEvaluation(ctx context.Context, id string) (*Evaluation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("evaluation id is required")
	}
	var out Evaluation
	if err := c.do(ctx, http.MethodGet, "/evaluations/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateShareLink(ctx context.Context, in *ShareLinkInput) (*ShareLink, error) {
	if in == nil {
		return nil, fmt.Errorf("share request is required")
	}
	var out ShareLink
	if err := c.do(ctx, http.MethodPost, "/share", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) document(ctx context.Context, path string) (Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func progressPath(clientID, programID string) string {
	return "/clients/" + url.PathEscape(clientID) + "/programs/" + url.PathEscape(programID)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	fullPath := apiPrefix + path
	target := c.baseURL + fullPath
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal spotr request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("build spotr request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(config.APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &BackendError{Method: method, Path: fullPath, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 8*1024))
		return &BackendError{
			Method:     method,
			Path:       fullPath,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			RequestID:  strings.TrimSpace(resp.Header.Get("X-Request-Id")),
		}
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &BackendError{
			Method:     method,
			Path:       fullPath,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Err:        fmt.Errorf("decode spotr response: %w", err),
		}
	}
	return nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
