package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLimit is how many leading bytes are inspected to detect a content type.
const sniffLimit = 3072

// MultipartBody represents a multipart/form-data request body.
// Pass this as the Body field of a Request; the boundary content type is
// set from the encoder, never by the caller.
type MultipartBody struct {
	// Fields are simple key-value form fields, written in key order.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField represents a file to upload in a multipart request.
type FileField struct {
	// FieldName is the form field name. Defaults to "file".
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. Sniffed from the content when empty.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is an alternative to Data for large files.
	Reader io.Reader
}

// encode builds the multipart body and returns the reader and content-type header.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		content, contentType, err := f.open()
		if err != nil {
			return nil, "", err
		}

		fieldName := f.FieldName
		if fieldName == "" {
			fieldName = "file"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(fieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// open returns the file content and its content type, sniffing the type
// from the leading bytes when none was given.
func (f FileField) open() (io.Reader, string, error) {
	if f.Reader == nil {
		data := f.Data
		if f.ContentType != "" {
			return bytes.NewReader(data), f.ContentType, nil
		}
		return bytes.NewReader(data), DetectContentType(data), nil
	}
	if f.ContentType != "" {
		return f.Reader, f.ContentType, nil
	}

	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(f.Reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), f.Reader), DetectContentType(head), nil
}

// DetectContentType sniffs the MIME type of data. Unknown content is
// reported as application/octet-stream.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// escapeQuotes replaces special characters in header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
