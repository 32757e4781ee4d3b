// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
)

// MockClient is a scripted Client for tests and local runs without an API
// key. Responses are consumed in order across both call styles; when the
// script runs out, Err (or a default error) is returned.
type MockClient struct {
	Responses []string
	Err       error

	// Prompts records every prompt received, in order.
	Prompts []Prompt

	next int
}

// Complete returns the next scripted response.
func (m *MockClient) Complete(_ context.Context, p Prompt) (string, error) {
	return m.take(p)
}

// CompleteJSON returns the next scripted response.
func (m *MockClient) CompleteJSON(_ context.Context, p Prompt) (string, error) {
	return m.take(p)
}

func (m *MockClient) take(p Prompt) (string, error) {
	m.Prompts = append(m.Prompts, p)
	if m.Err != nil {
		return "", m.Err
	}
	if m.next >= len(m.Responses) {
		return "", fmt.Errorf("mock client: no response scripted for call %d", m.next+1)
	}
	resp := m.Responses[m.next]
	m.next++
	return resp, nil
}
