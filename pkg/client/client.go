package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

const (
	DefaultTimeout = 10 * time.Second

	MsgListFailed   = "Failed to fetch patients"
	MsgGetFailed    = "Failed to fetch patient"
	MsgCreateFailed = "Failed to create patient"
	MsgUpdateFailed = "Failed to update patient"
	MsgDeleteFailed = "Failed to delete patient"
)

// Client talks to the patient API and normalises every failure into an
// *apperrors.AppError whose Message is fit to show a user.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	validator *validator.Validator
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithValidator(v *validator.Validator) Option {
	return func(c *Client) { c.validator = v }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.APIURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", cfg.APIURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = validator.New()
	}
	return c, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Errors  []string        `json:"errors"`
	Error   string          `json:"error"`
}

func (c *Client) ListPatients(ctx context.Context, filters model.PatientFilters) ([]*model.Patient, error) {
	query := url.Values{}
	if term := filters.Search(); term != "" {
		query.Set("search", term)
	}
	if status, ok := filters.StatusFilter(); ok {
		query.Set("status", string(status))
	}

	patients := []*model.Patient{}
	if err := c.do(ctx, http.MethodGet, "/patients", query, nil, &patients, failure{message: MsgListFailed}); err != nil {
		return nil, err
	}
	return patients, nil
}

func (c *Client) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	if err := c.do(ctx, http.MethodGet, "/patients/"+id.String(), nil, nil, &p, failure{message: MsgGetFailed, id: id}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	var p model.Patient
	if err := c.do(ctx, http.MethodPost, "/patients", nil, in, &p, failure{message: MsgCreateFailed, withErrors: true}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	var p model.Patient
	f := failure{message: MsgUpdateFailed, id: id, withErrors: true}
	if err := c.do(ctx, http.MethodPut, "/patients/"+id.String(), nil, in, &p, f); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	if err := c.do(ctx, http.MethodDelete, "/patients/"+id.String(), nil, nil, &p, failure{message: MsgDeleteFailed, id: id}); err != nil {
		return nil, err
	}
	return &p, nil
}

// check runs the shared rules before anything goes over the wire.
func (c *Client) check(in *model.PatientInput) error {
	if violations := c.validator.Patient(in); len(violations) > 0 {
		return validationError(violations.Messages())
	}
	return nil
}

// failure describes how a non-2xx answer is normalised for one operation.
type failure struct {
	message    string
	id         uuid.UUID
	withErrors bool
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, target interface{}, f failure) error {
	u := *c.baseURL
	u.Path += path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternal(f.message, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return apperrors.NewInternal(f.message, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewTransport(f.message, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransport(f.message, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		return normalise(resp.StatusCode, env, f)
	}
	if decodeErr != nil {
		return apperrors.NewInternal(f.message, fmt.Errorf("decode response: %w", decodeErr))
	}
	if target != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return apperrors.NewInternal(f.message, fmt.Errorf("decode data: %w", err))
		}
	}
	return nil
}

func normalise(status int, env envelope, f failure) error {
	if status == http.StatusNotFound && f.id != uuid.Nil {
		return apperrors.NewNotFound("Patient", f.id)
	}
	if status == http.StatusBadRequest && len(env.Errors) > 0 && f.withErrors {
		return validationError(env.Errors)
	}

	message := env.Message
	if message == "" {
		message = f.message
	}
	appErr := &apperrors.AppError{Code: apperrors.ErrInternal, Message: message}
	switch {
	case status == http.StatusBadRequest:
		appErr.Code = apperrors.ErrValidation
		appErr.Details = env.Errors
	case status == http.StatusNotFound:
		appErr.Code = apperrors.ErrNotFound
	case status >= http.StatusInternalServerError && env.Error != "":
		appErr.Code = apperrors.ErrStorage
		appErr.Err = errors.New(env.Error)
	}
	return appErr
}

func validationError(details []string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    apperrors.ErrValidation,
		Message: strings.Join(details, ", "),
		Details: details,
	}
}

// UserMessage is the text to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
