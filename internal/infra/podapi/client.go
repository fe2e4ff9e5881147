// Package podapi talks to the RunPod-style REST API.
package podapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"podctl/internal/config"
	"podctl/internal/domain"
	"podctl/pkg/backoff"
)

const (
	readyAttempts    = 24
	readyBaseBackoff = 2 * time.Second
	readyMaxBackoff  = 15 * time.Second
)

type Client struct {
	cfg  config.API
	http *http.Client
}

func New(cfg config.API) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// CreatePodRequest carries the fields the create endpoint needs. Field names
// mirror the API's JSON.
type CreatePodRequest struct {
	Name              string `json:"name"`
	ImageName         string `json:"imageName"`
	GPUTypeID         string `json:"gpuTypeId"`
	GPUCount          int    `json:"gpuCount"`
	VolumeInGB        int    `json:"volumeInGb"`
	ContainerDiskInGB int    `json:"containerDiskInGb"`
	SupportPublicIP   bool   `json:"supportPublicIp"`
	StartSSH          bool   `json:"startSsh"`
}

func (c *Client) GetPod(ctx context.Context, podID string) (domain.Pod, error) {
	var pod domain.Pod
	if err := c.do(ctx, http.MethodGet, "/pods/"+podID, nil, &pod); err != nil {
		return domain.Pod{}, err
	}
	return pod, nil
}

func (c *Client) CreatePod(ctx context.Context, req CreatePodRequest) (domain.Pod, error) {
	var pod domain.Pod
	if err := c.do(ctx, http.MethodPost, "/pods", req, &pod); err != nil {
		return domain.Pod{}, err
	}
	return pod, nil
}

func (c *Client) StopPod(ctx context.Context, podID string) error {
	return c.do(ctx, http.MethodPost, "/pods/"+podID+"/stop", nil, nil)
}

func (c *Client) ResumePod(ctx context.Context, podID string) error {
	return c.do(ctx, http.MethodPost, "/pods/"+podID+"/start", nil, nil)
}

func (c *Client) TerminatePod(ctx context.Context, podID string) error {
	return c.do(ctx, http.MethodDelete, "/pods/"+podID, nil, nil)
}

// Status maps a pod id to the coarse status shown in `podctl list`. Lookup
// failures read as invalid rather than erroring, so one dead alias doesn't
// break the listing.
func (c *Client) Status(ctx context.Context, podID string) domain.PodStatus {
	pod, err := c.GetPod(ctx, podID)
	if err != nil {
		return domain.PodInvalid
	}
	return pod.Status()
}

// WaitReady polls until the pod reports an active runtime with a public SSH
// endpoint, backing off between attempts.
func (c *Client) WaitReady(ctx context.Context, podID string) (domain.Pod, error) {
	for attempt := 1; attempt <= readyAttempts; attempt++ {
		pod, err := c.GetPod(ctx, podID)
		if err == nil && pod.Runtime != nil {
			if _, _, ok := pod.SSHEndpoint(); ok {
				return pod, nil
			}
		}
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Int("attempt", attempt).Msg("pod not ready yet")
		}

		delay := backoff.ExponentialJitter(readyBaseBackoff, readyMaxBackoff, attempt)
		select {
		case <-ctx.Done():
			return domain.Pod{}, ctx.Err()
		case <-time.After(delay):
		}
	}
	return domain.Pod{}, fmt.Errorf("timed out waiting for pod %s to become ready", podID)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pod API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pod API %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding pod API response: %w", err)
	}
	return nil
}
