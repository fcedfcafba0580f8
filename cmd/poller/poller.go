package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const timeoutMessage = "Research is taking longer than expected. Check back later with the session id."

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type statusBody struct {
	Status      string `json:"status"`
	CurrentStep string `json:"currentStep"`
	ResultID    *int   `json:"resultId"`
	Error       string `json:"error"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var e envelope[json.RawMessage]
		_ = json.Unmarshal(raw, &e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Message)
	}
	return json.Unmarshal(raw, out)
}

func (c *client) start(ctx context.Context, query, userID string) (string, error) {
	var out envelope[struct {
		SessionID string `json:"session_id"`
	}]
	err := c.do(ctx, http.MethodPost, "/research/start", map[string]string{"query": query, "user_id": userID}, &out)
	return out.Data.SessionID, err
}

func (c *client) status(ctx context.Context, sessionID string) (statusBody, error) {
	var out envelope[statusBody]
	err := c.do(ctx, http.MethodGet, "/research/status?sessionId="+url.QueryEscape(sessionID), nil, &out)
	return out.Data, err
}

// report fetches the markdown. Reports owned by a user are only returned to that user.
func (c *client) report(ctx context.Context, id int, userID string) (string, error) {
	var out envelope[struct {
		ReportMd string `json:"report_md"`
	}]
	path := fmt.Sprintf("/reports/%d", id)
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Data.ReportMd, err
}

type pollResult struct {
	Status   string
	ResultID int
	Error    string
	TimedOut bool
}

// poller gives up after maxAttempts polls. That bound is the only timeout a run has.
type poller struct {
	client      *client
	interval    time.Duration
	maxAttempts int
	onStep      func(step string)
}

func (p poller) run(ctx context.Context, sessionID string) (pollResult, error) {
	lastStep := ""
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return pollResult{}, ctx.Err()
			case <-time.After(p.interval):
			}
		}

		st, err := p.client.status(ctx, sessionID)
		if err != nil {
			return pollResult{}, err
		}
		if st.CurrentStep != lastStep && p.onStep != nil {
			p.onStep(st.CurrentStep)
			lastStep = st.CurrentStep
		}

		switch st.Status {
		case "completed":
			res := pollResult{Status: st.Status}
			if st.ResultID != nil {
				res.ResultID = *st.ResultID
			}
			return res, nil
		case "failed":
			return pollResult{Status: st.Status, Error: st.Error}, nil
		}
	}
	return pollResult{Status: "processing", TimedOut: true}, nil
}
