package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/store"
)

const testOrigin = "http://localhost:8080"

func dial(t *testing.T, h http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	header := http.Header{"Origin": []string{testOrigin}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	hello := read(t, conn)
	require.Equal(t, TypeHello, hello.Type)
	require.NotEmpty(t, hello.Session)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Response {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) Response {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	return read(t, conn)
}

func TestSetRecalculatesDependents(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, []string{testOrigin}))

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "5"})
	resp := roundTrip(t, conn, Request{ID: 2, Type: TypeSet, Address: "B1", Input: "=A1*2"})
	assert.Equal(t, 2, resp.ID)
	assert.Equal(t, "10", resp.Cells["B1"].Formatted)

	resp = roundTrip(t, conn, Request{Type: TypeSet, Address: "a1", Input: "10"})
	assert.Equal(t, TypeSet, resp.Type)
	assert.Equal(t, "10", resp.Cells["A1"].Formatted)
	assert.Equal(t, "20", resp.Cells["B1"].Formatted)

	resp = roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: ""})
	assert.Equal(t, []string{"A1"}, resp.Removed)
	assert.Equal(t, "0", resp.Cells["B1"].Formatted)
}

func TestSelectAndStats(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, nil))

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "2"})
	roundTrip(t, conn, Request{Type: TypeSet, Address: "A2", Input: "=A1*2"})

	resp := roundTrip(t, conn, Request{Type: TypeSelect, Address: "A2"})
	require.NotNil(t, resp.Content)
	assert.Equal(t, "=A1*2", *resp.Content)

	r := models.Range{Start: models.Position{Col: 0, Row: 0}, End: models.Position{Col: 0, Row: 2}}
	resp = roundTrip(t, conn, Request{Type: TypeSelectRange, Range: &r})
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 3, resp.Stats.Cells)
	assert.Equal(t, 6.0, resp.Stats.Sum)

	resp = roundTrip(t, conn, Request{Type: TypeStats})
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 3.0, resp.Stats.Average)
}

func TestRangeReference(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, nil))

	roundTrip(t, conn, Request{Type: TypeSet, Address: "B2", Input: "4"})
	roundTrip(t, conn, Request{Type: TypeSet, Address: "C3", Input: "6"})

	resp := roundTrip(t, conn, Request{Type: TypeStats, Ref: "$C$3:b2"})
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 4, resp.Stats.Cells)
	assert.Equal(t, 10.0, resp.Stats.Sum)

	resp = roundTrip(t, conn, Request{Type: TypeSelectRange, Ref: "B2:C3"})
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 5.0, resp.Stats.Average)

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "a"})
	roundTrip(t, conn, Request{Type: TypeSet, Address: "A2", Input: "a"})
	resp = roundTrip(t, conn, Request{Type: TypeDedup, Ref: "A1:A2"})
	assert.Equal(t, 1, resp.Count)

	resp = roundTrip(t, conn, Request{Type: TypeStats, Ref: "A1:B2:C3"})
	assert.Equal(t, TypeError, resp.Type)
}

func TestClipboard(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, nil))

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "hello"})
	roundTrip(t, conn, Request{Type: TypeSelect, Address: "A1"})
	resp := roundTrip(t, conn, Request{Type: TypeCut})
	assert.Equal(t, []string{"A1"}, resp.Removed)

	roundTrip(t, conn, Request{Type: TypeSelect, Address: "C3"})
	resp = roundTrip(t, conn, Request{Type: TypePaste})
	assert.Equal(t, "hello", resp.Cells["C3"].Formatted)
}

func TestBulkOperationsSendSnapshot(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, nil))

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "apple"})
	roundTrip(t, conn, Request{Type: TypeSet, Address: "A2", Input: "apple pie"})

	resp := roundTrip(t, conn, Request{Type: TypeFindReplace, Find: "apple", Replace: "pear"})
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "pear pie", resp.Sheet["A2"].Formatted)

	resp = roundTrip(t, conn, Request{Type: TypeInsertRow, Index: 0})
	assert.Equal(t, "pear", resp.Sheet["A2"].Formatted)
	assert.NotContains(t, resp.Sheet, "A1")
	require.NotNil(t, resp.Layout)

	resp = roundTrip(t, conn, Request{Type: TypeResize, Axis: "column", Index: 1, Size: 120})
	require.NotNil(t, resp.Layout)
	assert.Equal(t, 120, resp.Layout.ColumnWidths["B"])
}

func TestSaveLoadList(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	h := NewHandler(gridcalc.DefaultOptions(), s, nil)
	conn := dial(t, h)

	roundTrip(t, conn, Request{Type: TypeSet, Address: "A1", Input: "42"})
	resp := roundTrip(t, conn, Request{Type: TypeSave, Name: "answer"})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Saved)
	id := resp.Saved.ID

	// A second connection sees the sheet through the shared store.
	other := dial(t, h)
	resp = roundTrip(t, other, Request{Type: TypeList})
	require.Len(t, resp.Sheets, 1)
	assert.Equal(t, "answer", resp.Sheets[0].Name)

	resp = roundTrip(t, other, Request{Type: TypeLoad, SheetID: id})
	assert.Equal(t, "42", resp.Sheet["A1"].Formatted)
}

func TestErrors(t *testing.T) {
	conn := dial(t, NewHandler(gridcalc.DefaultOptions(), nil, nil))

	tests := []struct {
		name string
		req  Request
	}{
		{"unknown type", Request{Type: "explode"}},
		{"invalid address", Request{Type: TypeSet, Address: "1A", Input: "1"}},
		{"out of grid", Request{Type: TypeSet, Address: "ZZ1", Input: "1"}},
		{"empty find", Request{Type: TypeFindReplace}},
		{"dedup without selection", Request{Type: TypeDedup}},
		{"paste empty clipboard", Request{Type: TypePaste}},
		{"bad axis", Request{Type: TypeResize, Axis: "diagonal", Size: 10}},
		{"missing style", Request{Type: TypeStyle, Address: "A1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.req)
			assert.Equal(t, TypeError, resp.Type)
			assert.NotEmpty(t, resp.Error)
		})
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	resp := read(t, conn)
	assert.Equal(t, TypeError, resp.Type)
}

func TestRejectsOrigin(t *testing.T) {
	srv := httptest.NewServer(NewHandler(gridcalc.DefaultOptions(), nil, []string{testOrigin}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	tests := []struct {
		name   string
		origin string
	}{
		{"foreign origin", "http://evil.example"},
		{"missing origin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			_, resp, err := websocket.DefaultDialer.Dial(url, header)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
