package httpclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
)

// MultipartBody is a multipart/form-data request body. It is encoded on the
// fly through a pipe, so file parts are never held in memory.
type MultipartBody struct {
	// Fields are written in order before the files. Names may repeat.
	Fields []FormField
	// Files are file upload fields.
	Files []FileField
}

// FormField is a simple name/value form field.
type FormField struct {
	Name  string
	Value string
}

// FileField represents a file to upload in a multipart request.
type FileField struct {
	// FieldName is the form field name (e.g., "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Path is opened and closed by the encoder. Takes precedence over Reader.
	Path string
	// Reader is read to EOF when Path is empty.
	Reader io.Reader
}

// Add appends a form field.
func (m *MultipartBody) Add(name, value string) {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
}

// encode starts a writer goroutine and returns the read side of the pipe.
// Closing the reader (the transport does so on any failure) stops the writer.
func (m *MultipartBody) encode() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(m.write(w))
	}()

	return pr, w.FormDataContentType()
}

func (m *MultipartBody) write(w *multipart.Writer) error {
	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return err
		}
	}
	return w.Close()
}

func writeFile(w *multipart.Writer, f FileField) error {
	src := f.Reader
	if f.Path != "" {
		file, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", f.FieldName, err)
		}
		defer func() { _ = file.Close() }()
		src = file
	}

	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.FieldName), escapeQuotes(f.FileName)))
	header.Set("Content-Type", ct)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	if src == nil {
		return nil
	}
	_, err = io.Copy(part, src)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
