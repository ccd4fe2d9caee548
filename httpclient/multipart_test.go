package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func readParts(t *testing.T, r io.Reader, contentType string) []*partData {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}

	var parts []*partData
	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts = append(parts, &partData{
			name:        part.FormName(),
			fileName:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
	return parts
}

type partData struct {
	name, fileName, contentType, data string
}

func TestMultipartBody_Encode_FieldsInKeyOrder(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"subject_id": "s1", "description": "notes", "name": "week 1"},
	}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}

	parts := readParts(t, reader, contentType)
	var names []string
	for _, p := range parts {
		names = append(names, p.name)
	}
	if got := strings.Join(names, ","); got != "description,name,subject_id" {
		t.Errorf("field order = %s", got)
	}
}

func TestMultipartBody_Encode_WithFile(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"subject_id": "s1"},
		Files: []FileField{{
			FileName:    "notes.txt",
			ContentType: "text/plain",
			Data:        []byte("chapter one"),
		}},
	}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, reader, contentType)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	file := parts[1]
	if file.name != "file" {
		t.Errorf("default field name = %q, want file", file.name)
	}
	if file.fileName != "notes.txt" || file.contentType != "text/plain" || file.data != "chapter one" {
		t.Errorf("file part = %+v", file)
	}
}

func TestMultipartBody_Encode_SniffsContentType(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	mp := &MultipartBody{Files: []FileField{{FileName: "lecture.pdf", Data: pdf}}}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatal(err)
	}
	parts := readParts(t, reader, contentType)
	if parts[0].contentType != "application/pdf" {
		t.Errorf("sniffed content type = %q, want application/pdf", parts[0].contentType)
	}
}

func TestMultipartBody_Encode_ReaderSniffKeepsContent(t *testing.T) {
	content := strings.Repeat("plain text line\n", 500)
	mp := &MultipartBody{Files: []FileField{{FileName: "big.txt", Reader: strings.NewReader(content)}}}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatal(err)
	}
	parts := readParts(t, reader, contentType)
	if parts[0].data != content {
		t.Errorf("content length = %d, want %d", len(parts[0].data), len(content))
	}
	if !strings.HasPrefix(parts[0].contentType, "text/plain") {
		t.Errorf("content type = %q, want text/plain", parts[0].contentType)
	}
}

func TestDetectContentType_Unknown(t *testing.T) {
	if got := DetectContentType([]byte{0x00, 0x01, 0x02, 0x03}); got != "application/octet-stream" {
		t.Errorf("got %q", got)
	}
}

func TestEscapeQuotes(t *testing.T) {
	tests := []struct{ in, want string }{
		{"simple", "simple"},
		{`has"quote`, `has\"quote`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeQuotes(tt.in); got != tt.want {
			t.Errorf("escapeQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeBody(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		wantCT string
	}{
		{"nil", nil, ""},
		{"bytes", []byte("raw"), ""},
		{"reader", bytes.NewReader([]byte("raw")), ""},
		{"string", "text", "text/plain"},
		{"json", map[string]string{"a": "b"}, "application/json"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ct, err := encodeBody(tc.body)
			if err != nil {
				t.Fatal(err)
			}
			if ct != tc.wantCT {
				t.Errorf("content type = %q, want %q", ct, tc.wantCT)
			}
		})
	}

	if _, _, err := encodeBody(map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("expected error for unencodable body")
	}
}
