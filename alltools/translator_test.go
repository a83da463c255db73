// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func TestTranslator_PairsToolEndWithStart(t *testing.T) {
	tr := at.NewTranslator()

	ev, err := tr.Translate(at.Record{Status: at.StatusAgentAction, RunID: "a", Tool: "search", ToolInput: "go", Log: "log"})
	require.NoError(t, err)
	assert.Equal(t, &at.ActionEvent{RunID: "a", Tool: "search", ToolInput: "go", Log: "log"}, ev)

	_, err = tr.Translate(at.Record{Status: at.StatusToolStart, RunID: "a", Tool: "search", ToolInput: "go"})
	require.NoError(t, err)
	_, err = tr.Translate(at.Record{Status: at.StatusToolStart, RunID: "b", Tool: "clock", ToolInput: "{}"})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Pending())

	// Ends may arrive in any order; the start's tool and input are carried over.
	ev, err = tr.Translate(at.Record{Status: at.StatusToolEnd, RunID: "b", ToolOutput: "noon"})
	require.NoError(t, err)
	assert.Equal(t, &at.ToolEndEvent{RunID: "b", Tool: "clock", ToolInput: "{}", ToolOutput: "noon"}, ev)

	ev, err = tr.Translate(at.Record{Status: at.StatusToolEnd, RunID: "a", ToolOutput: "boom", IsError: true})
	require.NoError(t, err)
	end := ev.(*at.ToolEndEvent)
	assert.Equal(t, "search", end.Tool)
	assert.True(t, end.IsError)
	assert.Equal(t, 0, tr.Pending())
}

func TestTranslator_UnknownRunID(t *testing.T) {
	tr := at.NewTranslator()

	_, err := tr.Translate(at.Record{Status: at.StatusToolEnd, RunID: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, at.ErrUnknownRunCorrelation)

	var ce *at.CorrelationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ghost", ce.RunID)

	// A second end for an already-ended run is also unknown.
	_, err = tr.Translate(at.Record{Status: at.StatusToolStart, RunID: "x", Tool: "t"})
	require.NoError(t, err)
	_, err = tr.Translate(at.Record{Status: at.StatusToolEnd, RunID: "x"})
	require.NoError(t, err)
	_, err = tr.Translate(at.Record{Status: at.StatusToolEnd, RunID: "x"})
	assert.ErrorIs(t, err, at.ErrUnknownRunCorrelation)
}

func TestTranslator_LLMAndFinish(t *testing.T) {
	tr := at.NewTranslator()

	for _, s := range []at.Status{at.StatusLLMStart, at.StatusLLMNewToken, at.StatusLLMEnd, at.StatusError} {
		ev, err := tr.Translate(at.Record{Status: s, RunID: "m", Text: "tok"})
		require.NoError(t, err)
		status, ok := ev.(*at.LLMStatusEvent)
		require.True(t, ok)
		assert.Equal(t, s, status.Status())
		assert.Equal(t, at.MessageText, status.MessageType)
		assert.Equal(t, "tok", status.Text)
	}

	_, err := tr.Translate(at.Record{Status: at.StatusToolStart, RunID: "dangling", Tool: "t"})
	require.NoError(t, err)

	ev, err := tr.Translate(at.Record{Status: at.StatusAgentFinish, RunID: "r", Output: "42", Log: "42"})
	require.NoError(t, err)
	assert.Equal(t, &at.FinishEvent{RunID: "r", Output: "42", Log: "42"}, ev)
	assert.Zero(t, tr.Pending())
}

func TestTranslator_UnknownStatus(t *testing.T) {
	_, err := at.NewTranslator().Translate(at.Record{Status: at.Status(99)})
	assert.ErrorIs(t, err, at.ErrRun)
}
