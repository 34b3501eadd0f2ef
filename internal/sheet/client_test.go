package sheet

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/opendsi/googoal/internal/frame"
)

type capturedWrite struct {
	Range  string
	Option string
	Values [][]interface{}
}

// fakeAPI serves just enough of the spreadsheets surface to run the
// client against canned cell data and record what it writes back.
type fakeAPI struct {
	t *testing.T

	sheets []*sheetsv4.Sheet
	values map[string][][]interface{}

	mu           sync.Mutex
	updates      []capturedWrite
	appends      []capturedWrite
	valueBatches []*sheetsv4.BatchUpdateValuesRequest
	batches      []*sheetsv4.BatchUpdateSpreadsheetRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case path == "/v4/spreadsheets/test" && r.Method == http.MethodGet:
		f.reply(w, &sheetsv4.Spreadsheet{Sheets: f.sheets})
	case path == "/v4/spreadsheets/test:batchUpdate":
		req := &sheetsv4.BatchUpdateSpreadsheetRequest{}
		f.decode(r, req)
		f.mu.Lock()
		f.batches = append(f.batches, req)
		f.mu.Unlock()
		f.reply(w, &sheetsv4.BatchUpdateSpreadsheetResponse{})
	case path == "/v4/spreadsheets/test/values:batchUpdate":
		req := &sheetsv4.BatchUpdateValuesRequest{}
		f.decode(r, req)
		f.mu.Lock()
		f.valueBatches = append(f.valueBatches, req)
		f.mu.Unlock()
		f.reply(w, &sheetsv4.BatchUpdateValuesResponse{})
	case strings.HasSuffix(path, ":append") && r.Method == http.MethodPost:
		rng := strings.TrimSuffix(strings.TrimPrefix(path, "/v4/spreadsheets/test/values/"), ":append")
		vr := &sheetsv4.ValueRange{}
		f.decode(r, vr)
		f.mu.Lock()
		f.appends = append(f.appends, capturedWrite{Range: rng, Option: r.URL.Query().Get("valueInputOption"), Values: vr.Values})
		f.mu.Unlock()
		f.reply(w, &sheetsv4.AppendValuesResponse{})
	case strings.HasPrefix(path, "/v4/spreadsheets/test/values/") && r.Method == http.MethodGet:
		rng := strings.TrimPrefix(path, "/v4/spreadsheets/test/values/")
		f.reply(w, &sheetsv4.ValueRange{Range: rng, Values: f.values[rng]})
	case strings.HasPrefix(path, "/v4/spreadsheets/test/values/") && r.Method == http.MethodPut:
		rng := strings.TrimPrefix(path, "/v4/spreadsheets/test/values/")
		vr := &sheetsv4.ValueRange{}
		f.decode(r, vr)
		f.mu.Lock()
		f.updates = append(f.updates, capturedWrite{Range: rng, Option: r.URL.Query().Get("valueInputOption"), Values: vr.Values})
		f.mu.Unlock()
		f.reply(w, &sheetsv4.UpdateValuesResponse{})
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, path)
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) reply(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeAPI) decode(r *http.Request, v any) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		f.t.Errorf("decode request body: %v", err)
	}
}

func newFake(t *testing.T, opts Options) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{
		t: t,
		sheets: []*sheetsv4.Sheet{
			{Properties: &sheetsv4.SheetProperties{SheetId: 77, Title: "Sheet1"}},
		},
		values: map[string][][]interface{}{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	svc, err := sheetsv4.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication())
	require.NoError(t, err)
	c := NewClientFromServices(svc, nil, "test", opts)
	c.worksheet = "Sheet1"
	return f, c
}

func TestRead_MapsTable(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "email", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}, {"bob"}, {"carol"}}
	f.values["Sheet1!A2:C4"] = [][]interface{}{
		{"alice", "alice@example.com", "3"},
		{"bob", "bob@example.com", "nan"},
		{"carol", "carol@example.com", "2.5"},
	}

	got, err := c.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "name", got.IndexName)
	assert.Equal(t, []string{"email", "score"}, got.Columns)
	assert.Equal(t, []string{"alice", "bob", "carol"}, got.Index())

	v, ok := got.Get("alice", "score")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	v, _ = got.Get("bob", "score")
	assert.Nil(t, v, "na values read back as missing")

	v, _ = got.Get("carol", "score")
	assert.Equal(t, 2.5, v)
}

func TestRead_PrefersIndexColumn(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"email", "Index"}}
	f.values["Sheet1!B:B"] = [][]interface{}{{"Index"}, {"a1"}, {"a2"}}
	f.values["Sheet1!A2:B3"] = [][]interface{}{
		{"x@example.com", "a1"},
		{"y@example.com", "a2"},
	}

	got, err := c.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Index", got.IndexName)
	assert.Equal(t, []string{"email"}, got.Columns)
	v, _ := got.Get("a2", "email")
	assert.Equal(t, "y@example.com", v)
}

func TestRead_DtypeOverridesNumericising(t *testing.T) {
	f, c := newFake(t, Options{
		Dtype: map[string]func(string) any{
			"zip": func(raw string) any { return raw },
		},
	})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "zip", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}, {"bob"}}
	f.values["Sheet1!A2:C3"] = [][]interface{}{
		{"alice", "01234", "3"},
		{"bob", "nan", "2"},
	}

	got, err := c.Read(context.Background())
	require.NoError(t, err)

	v, ok := got.Get("alice", "zip")
	require.True(t, ok)
	assert.Equal(t, "01234", v, "converted column keeps its leading zero")
	v, _ = got.Get("alice", "score")
	assert.Equal(t, int64(3), v, "other columns numericise as before")
	v, _ = got.Get("bob", "zip")
	assert.Nil(t, v, "na filtering runs before the converter")
}

func TestRead_UseColumnsFiltersValues(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "email", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}}
	f.values["Sheet1!A2:C2"] = [][]interface{}{{"alice", "alice@example.com", "3"}}

	got, err := c.Read(context.Background(), "email")
	require.NoError(t, err)

	v, _ := got.Get("alice", "email")
	assert.Equal(t, "alice@example.com", v)
	v, _ = got.Get("alice", "score")
	assert.Nil(t, v)
}

func TestRead_NoHeader(t *testing.T) {
	_, c := newFake(t, Options{})

	_, err := c.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row found")
}

func TestSetFocus(t *testing.T) {
	f, c := newFake(t, Options{})
	f.sheets = append(f.sheets, &sheetsv4.Sheet{
		Properties: &sheetsv4.SheetProperties{SheetId: 78, Title: "Extra", Index: 1},
	})

	require.NoError(t, c.SetFocus(context.Background(), ""))
	assert.Equal(t, "Sheet1", c.Worksheet())

	require.NoError(t, c.SetFocus(context.Background(), "Extra"))
	assert.Equal(t, "Extra", c.Worksheet())
}

func TestSetFocus_CreatesMissingWorksheet(t *testing.T) {
	f, c := newFake(t, Options{})

	require.NoError(t, c.SetFocus(context.Background(), "Data"))

	assert.Equal(t, "Data", c.Worksheet())
	require.Len(t, f.batches, 1)
	require.Len(t, f.batches[0].Requests, 1)
	add := f.batches[0].Requests[0].AddSheet
	require.NotNil(t, add)
	assert.Equal(t, "Data", add.Properties.Title)
	assert.Equal(t, int64(100), add.Properties.GridProperties.RowCount)
	assert.Equal(t, int64(10), add.Properties.GridProperties.ColumnCount)
}

func TestWrite_RefusesNonEmptyTarget(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!A1:C1"] = [][]interface{}{{"existing"}}

	data := frame.New("name", "email", "score")
	data.AppendRow("alice", map[string]any{"email": "alice@example.com", "score": int64(3)})

	err := c.Write(context.Background(), data, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")
}

func TestWrite_HeaderAndBody(t *testing.T) {
	f, c := newFake(t, Options{})

	data := frame.New("name", "email", "score")
	data.AppendRow("alice", map[string]any{"email": "alice@example.com", "score": int64(3)})
	data.AppendRow("bob", map[string]any{"email": "bob@example.com"})

	require.NoError(t, c.Write(context.Background(), data, ""))

	require.Len(t, f.updates, 2)
	header := f.updates[0]
	assert.Equal(t, "Sheet1!A1:C1", header.Range)
	assert.Equal(t, "RAW", header.Option)
	assert.Equal(t, [][]interface{}{{"name", "email", "score"}}, header.Values)

	body := f.updates[1]
	assert.Equal(t, "Sheet1!A2:C3", body.Range)
	require.Len(t, body.Values, 2)
	assert.Equal(t, []interface{}{"alice", "alice@example.com", float64(3)}, body.Values[0])
	assert.Equal(t, []interface{}{"bob", "bob@example.com", ""}, body.Values[1], "missing cells write as empty strings")
}

func TestWrite_CommentNeedsRoom(t *testing.T) {
	_, c := newFake(t, Options{})

	err := c.Write(context.Background(), frame.New("name"), "a comment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comment would be overwritten")
}

func TestWrite_CommentAboveHeader(t *testing.T) {
	f, c := newFake(t, Options{Header: 2})

	data := frame.New("name", "score")
	data.AppendRow("alice", map[string]any{"score": int64(1)})

	require.NoError(t, c.Write(context.Background(), data, "fetched today"))

	require.GreaterOrEqual(t, len(f.updates), 1)
	comment := f.updates[0]
	assert.Equal(t, "Sheet1!A1", comment.Range)
	assert.Equal(t, [][]interface{}{{"fetched today"}}, comment.Values)
	assert.Equal(t, "Sheet1!A2:B2", f.updates[1].Range, "headers land on the last header row")
}

func TestAppendRow(t *testing.T) {
	f, c := newFake(t, Options{})

	require.NoError(t, c.AppendRow(context.Background(), "alice", int64(3), nil))

	require.Len(t, f.appends, 1)
	assert.Equal(t, "Sheet1!A1", f.appends[0].Range)
	assert.Equal(t, "RAW", f.appends[0].Option)
	assert.Equal(t, [][]interface{}{{"alice", float64(3), ""}}, f.appends[0].Values)
}

func TestUpdate_AppliesPlan(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}, {"bob"}, {"carol"}}
	f.values["Sheet1!A2:B4"] = [][]interface{}{
		{"alice", "1"},
		{"bob", "2"},
		{"carol", "3"},
	}

	desired := frame.New("name", "score")
	desired.AppendRow("alice", map[string]any{"score": int64(10)})
	desired.AppendRow("dave", map[string]any{"score": int64(4)})

	plan, err := c.Update(context.Background(), desired, nil, "", true)
	require.NoError(t, err)

	assert.Equal(t, []CellChange{{Index: "alice", Column: "score", Value: int64(10)}}, plan.Updates)
	assert.Equal(t, []string{"dave"}, plan.Add)
	assert.ElementsMatch(t, []string{"bob", "carol"}, plan.Remove)

	// Changed cells go through one batched value update.
	require.Len(t, f.valueBatches, 1)
	batch := f.valueBatches[0]
	assert.Equal(t, "RAW", batch.ValueInputOption)
	require.Len(t, batch.Data, 1)
	assert.Equal(t, "Sheet1!B2", batch.Data[0].Range)
	assert.Equal(t, [][]interface{}{{float64(10)}}, batch.Data[0].Values)

	// New rows are appended below the table.
	require.Len(t, f.appends, 1)
	assert.Equal(t, "Sheet1!A1", f.appends[0].Range)
	assert.Equal(t, "RAW", f.appends[0].Option)
	assert.Equal(t, [][]interface{}{{"dave", float64(4)}}, f.appends[0].Values)

	// Stale rows are deleted bottom-up.
	require.Len(t, f.batches, 1)
	reqs := f.batches[0].Requests
	require.Len(t, reqs, 2)
	require.NotNil(t, reqs[0].DeleteDimension)
	assert.Equal(t, int64(77), reqs[0].DeleteDimension.Range.SheetId)
	assert.Equal(t, "ROWS", reqs[0].DeleteDimension.Range.Dimension)
	assert.Equal(t, int64(3), reqs[0].DeleteDimension.Range.StartIndex)
	assert.Equal(t, int64(2), reqs[1].DeleteDimension.Range.StartIndex)
}

func TestUpdate_WritesNonFiniteAsEmpty(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}}
	f.values["Sheet1!A2:B2"] = [][]interface{}{{"alice", "1"}}

	desired := frame.New("name", "score")
	desired.AppendRow("alice", map[string]any{"score": frame.Numericise("nan")})

	plan, err := c.Update(context.Background(), desired, nil, "", true)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "alice", plan.Updates[0].Index)
	assert.Equal(t, "score", plan.Updates[0].Column)

	require.Len(t, f.valueBatches, 1)
	require.Len(t, f.valueBatches[0].Data, 1)
	assert.Equal(t, "Sheet1!B2", f.valueBatches[0].Data[0].Range)
	assert.Equal(t, [][]interface{}{{""}}, f.valueBatches[0].Data[0].Values)
}

func TestAppendRow_NonFiniteValues(t *testing.T) {
	f, c := newFake(t, Options{})

	require.NoError(t, c.AppendRow(context.Background(), "alice", math.NaN(), math.Inf(1), math.Inf(-1)))

	require.Len(t, f.appends, 1)
	assert.Equal(t, [][]interface{}{{"alice", "", "", ""}}, f.appends[0].Values)
}

func TestUpdate_NothingToChange(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}}
	f.values["Sheet1!A2:B2"] = [][]interface{}{{"alice", "1"}}

	desired := frame.New("name", "score")
	desired.AppendRow("alice", map[string]any{"score": int64(1)})

	plan, err := c.Update(context.Background(), desired, nil, "", true)
	require.NoError(t, err)

	assert.True(t, plan.Empty())
	assert.Empty(t, f.valueBatches)
	assert.Empty(t, f.appends)
	assert.Empty(t, f.batches)
}

func TestAugment_KeepsRowsAndFilledCells(t *testing.T) {
	f, c := newFake(t, Options{})
	f.values["Sheet1!1:1"] = [][]interface{}{{"name", "score"}}
	f.values["Sheet1!A:A"] = [][]interface{}{{"name"}, {"alice"}, {"bob"}}
	f.values["Sheet1!A2:B3"] = [][]interface{}{
		{"alice", "1"},
		{"bob", ""},
	}

	desired := frame.New("name", "score")
	desired.AppendRow("alice", map[string]any{"score": int64(99)})
	desired.AppendRow("bob", map[string]any{"score": int64(2)})

	plan, err := c.Augment(context.Background(), desired, nil, "")
	require.NoError(t, err)

	assert.Equal(t, []CellChange{{Index: "bob", Column: "score", Value: int64(2)}}, plan.Updates)
	assert.Empty(t, plan.Remove)
	assert.Empty(t, f.batches, "augment never deletes rows")
}

func TestDeleteWorksheet(t *testing.T) {
	f, c := newFake(t, Options{})
	f.sheets = append(f.sheets, &sheetsv4.Sheet{
		Properties: &sheetsv4.SheetProperties{SheetId: 78, Title: "Old", Index: 1},
	})

	require.NoError(t, c.DeleteWorksheet(context.Background(), "Old"))

	require.Len(t, f.batches, 1)
	require.Len(t, f.batches[0].Requests, 1)
	del := f.batches[0].Requests[0].DeleteSheet
	require.NotNil(t, del)
	assert.Equal(t, int64(78), del.SheetId)

	err := c.DeleteWorksheet(context.Background(), "Absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `worksheet "Absent" not found`)
}

func TestURL(t *testing.T) {
	_, c := newFake(t, Options{})
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/test", c.URL())
}
