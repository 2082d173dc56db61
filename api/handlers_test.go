/*
handlers_test.go - HTTP-level tests over the chi router

Exercises the full request path: import an uploaded workbook, browse the
resulting records, flip a notification flag, and run a campaign with a
fake sender.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize/v2"

	"github.com/brokerkit/client-sync/ingest"
	"github.com/brokerkit/client-sync/ingest/store"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(_ context.Context, recipient, _ string) error {
	f.sent = append(f.sent, recipient)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory, *fakeSender) {
	t.Helper()
	mem := store.NewMemory()
	sender := &fakeSender{}
	handler := NewHandler(mem, sender, nil)
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server, mem, sender
}

func workbookUpload(t *testing.T, rows [][]interface{}) (body *bytes.Buffer, contentType string) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	body = &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "clientes.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(wb.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestImportThenBrowse(t *testing.T) {
	server, _, _ := newTestServer(t)

	body, contentType := workbookUpload(t, [][]interface{}{
		{"Tomador", "Telefono", "Nro Poliza"},
		{"Ana Gomez", "555-1234", "P-100"},
		{"Luis Perez", "555-5678", "P-200"},
	})

	resp, err := http.Post(server.URL+"/api/collections/Acme/import", contentType, body)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}

	var summary struct {
		Appended int `json:"appended"`
		Updated  int `json:"updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Appended != 2 || summary.Updated != 0 {
		t.Errorf("expected (2 appended, 0 updated), got %+v", summary)
	}

	listResp, err := http.Get(server.URL + "/api/collections/Acme/records")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer listResp.Body.Close()

	var records []RecordDTO
	if err := json.NewDecoder(listResp.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].FullName != "Ana Gomez" || records[0].Phone1 != "5551234" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestImport_NoNameColumnIs422(t *testing.T) {
	server, _, _ := newTestServer(t)

	body, contentType := workbookUpload(t, [][]interface{}{
		{"Telefono", "Poliza"},
		{"5551234", "P1"},
	})

	resp, err := http.Post(server.URL+"/api/collections/Acme/import", contentType, body)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestSetNotificationFlag(t *testing.T) {
	server, mem, _ := newTestServer(t)
	ctx := context.Background()

	if err := mem.EnsureCollection(ctx, "Acme"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	row := []string{"U1", "Ana Gomez", "123", "DNI", "5551234", "", "", "P1", "2024-01-01 00:00:00", "FALSE", ""}
	if err := mem.AppendRows(ctx, "Acme", [][]string{row}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	url := server.URL + "/api/collections/Acme/records/123/notification"
	resp := doJSON(t, http.MethodPut, url, SetNotificationRequest{Sent: true})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	rows, _ := mem.ReadAll(ctx, "Acme")
	if rows[1][9] != ingest.FlagSent {
		t.Errorf("flag not persisted: %v", rows[1])
	}

	missing := doJSON(t, http.MethodPut,
		server.URL+"/api/collections/Acme/records/nope/notification",
		SetNotificationRequest{Sent: true})
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown client, got %d", missing.StatusCode)
	}
}

func TestRunCampaign(t *testing.T) {
	server, mem, sender := newTestServer(t)
	ctx := context.Background()

	if err := mem.EnsureCollection(ctx, "Acme"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	rows := [][]string{
		{"U1", "Ana Gomez", "123", "DNI", "5551234", "", "", "P1", "2024-01-01 00:00:00", "FALSE", ""},
		{"U2", "Luis Perez", "456", "DNI", "5555678", "", "", "P2", "2024-01-01 00:00:00", "TRUE", ""},
	}
	if err := mem.AppendRows(ctx, "Acme", rows); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/collections/Acme/campaign",
		CampaignRequest{Template: "Hola {Nombre_Apellido}"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("campaign status = %d", resp.StatusCode)
	}

	var result struct {
		Sent   int `json:"sent"`
		Failed int `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Sent != 1 || result.Failed != 0 {
		t.Errorf("expected exactly the pending client messaged, got %+v", result)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "5551234" {
		t.Errorf("unexpected deliveries: %v", sender.sent)
	}

	empty := doJSON(t, http.MethodPost, server.URL+"/api/collections/Acme/campaign", CampaignRequest{})
	defer empty.Body.Close()
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty template, got %d", empty.StatusCode)
	}
}

func TestListCollections(t *testing.T) {
	server, mem, _ := newTestServer(t)
	ctx := context.Background()
	for _, name := range []string{"Zeta", "Acme"} {
		if err := mem.EnsureCollection(ctx, name); err != nil {
			t.Fatalf("ensure: %v", err)
		}
	}

	resp, err := http.Get(server.URL + "/api/collections")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fmt.Sprint(names) != "[Acme Zeta]" {
		t.Errorf("expected sorted collections, got %v", names)
	}
}
