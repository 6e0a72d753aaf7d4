package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeCrossLanguageJumpParams_RequiresPackageNameAndName(t *testing.T) {
	_, err := DecodeCrossLanguageJumpParams(json.RawMessage(`{"name":"Foo"}`))
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "packageName", decodeErr.Field)
}

func TestDecodeCrossLanguageJumpParams_TolerantOfUnknownFields(t *testing.T) {
	params, err := DecodeCrossLanguageJumpParams(json.RawMessage(`{"packageName":"app.widgets","name":"Widget","somethingElse":1}`))
	require.NoError(t, err)
	require.Equal(t, "app.widgets", params.PackageName)
	require.Equal(t, "Widget", params.Name)
	require.Nil(t, params.OuterName)
}

func TestDecodeFileRefactorRequest_RequiresAllFields(t *testing.T) {
	_, err := DecodeFileRefactorRequest(json.RawMessage(`{"file":"a.cj","targetPath":"b"}`))
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "selectedElement", decodeErr.Field)
}

func TestDecodeDidChange_EmptyContentChangesIsDecodeFailure(t *testing.T) {
	_, err := DecodeDidChange(json.RawMessage(`{"textDocument":{"uri":"file:///a.cj","version":2},"contentChanges":[]}`))
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "contentChanges", decodeErr.Field)
}

func TestDecodeDidChange_EntryMissingTextIsIgnored(t *testing.T) {
	params, err := DecodeDidChange(json.RawMessage(`{
		"textDocument":{"uri":"file:///a.cj","version":2},
		"contentChanges":[
			{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}}},
			{"text":"replacement"}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, params.Changes, 1)
	require.Equal(t, "replacement", params.Changes[0].Text)
	require.False(t, params.Changes[0].HasRange)
}

func TestDecodeDidChange_AllEntriesInvalidIsDecodeFailure(t *testing.T) {
	_, err := DecodeDidChange(json.RawMessage(`{
		"textDocument":{"uri":"file:///a.cj","version":2},
		"contentChanges":[
			{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}}}
		]
	}`))
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "contentChanges[].text", decodeErr.Field)
}

func TestDecodeDidChange_PreservesRangeAndFullReplacement(t *testing.T) {
	params, err := DecodeDidChange(json.RawMessage(`{
		"textDocument":{"uri":"file:///a.cj","version":3},
		"contentChanges":[
			{"range":{"start":{"line":1,"character":2},"end":{"line":1,"character":5}},"text":"foo"},
			{"text":"whole file"}
		]
	}`))
	require.NoError(t, err)
	require.Equal(t, "file:///a.cj", params.URI)
	require.Equal(t, 3, params.Version)
	require.Len(t, params.Changes, 2)
	require.True(t, params.Changes[0].HasRange)
	require.Equal(t, 1, params.Changes[0].StartLine)
	require.Equal(t, 2, params.Changes[0].StartCharacter)
	require.Equal(t, 1, params.Changes[0].EndLine)
	require.Equal(t, 5, params.Changes[0].EndCharacter)
	require.False(t, params.Changes[1].HasRange)
	require.Equal(t, "whole file", params.Changes[1].Text)
}

func TestFileRefactorResponse_NeverEncodesNullEdits(t *testing.T) {
	resp := FileRefactorResponse{}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"edits":{}}`, string(data))
}

func TestParseInitializationOptions_TolerantOfComments(t *testing.T) {
	raw := json.RawMessage(`{
		// trailing comment support
		"cangjieRootUri": "file:///root", // and inline
	}`)
	var out struct {
		CangjieRootURI string `json:"cangjieRootUri"`
	}
	require.NoError(t, ParseInitializationOptions(raw, &out))
	require.Equal(t, "file:///root", out.CangjieRootURI)
}

func TestInitEndOfLineMode_RunsOnce(t *testing.T) {
	// This exercises the once-semantics only insofar as repeated calls
	// don't error or panic; the package-level sync.Once is shared
	// process-wide by design and cannot be reset between test cases.
	InitEndOfLineMode(json.RawMessage(`{}`))
	InitEndOfLineMode(json.RawMessage(`{"cangjieRootUri":"file:///root"}`))
	require.NotPanics(t, func() { _ = CurrentEndOfLineMode() })
}
