package portal

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// buildForm encodes a wire-keyed field map plus an optional file part into a
// multipart body. The returned content type carries the boundary and must be
// passed to the transport verbatim.
func buildForm(fields map[string]interface{}, fileField, filename string, file io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, formValue(value)); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if file != nil {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("copy file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// formValue renders a JSON-decoded field value as a form string. Numbers come
// out of the codec as float64; integral values must not grow a ".0" suffix.
func formValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
