package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := &Response{ID: 7, Result: map[string]interface{}{"ok": true}}
	if err := writeResponse(&buf, want); err != nil {
		t.Fatalf("writeResponse: %v", err)
	}

	reqBytes, _ := json.Marshal(Request{ID: 7, Method: "ping"})
	frame := bytes.NewBufferString(fmt.Sprintf("Content-Length: %d\r\n\r\n", len(reqBytes)))
	frame.Write(reqBytes)

	got, err := readRequest(bufio.NewReader(frame))
	if err != nil {
		t.Fatalf("readRequest: %v", err)
	}
	if got.ID != 7 || got.Method != "ping" {
		t.Fatalf("got %+v", got)
	}
}

func TestReadRequestRejectsMissingHeader(t *testing.T) {
	frame := bytes.NewBufferString("not-a-header\r\n\r\n{}")
	if _, err := readRequest(bufio.NewReader(frame)); err == nil {
		t.Fatal("expected error for malformed header")
	}
}
