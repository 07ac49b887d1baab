package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/sigtbr/sigt-cli/internal/common"
)

// FileOpener resolves a staged document's local reference into its content.
// Production code uses OSFileOpener; tests substitute in-memory readers.
type FileOpener func(path string) (io.ReadCloser, error)

// OSFileOpener reads documents from the local filesystem.
func OSFileOpener(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

type documentMetadata struct {
	DocumentTypeID string `json:"documentTypeId"`
	Filename       string `json:"filename"`
}

// BuildSubmission assembles the single multipart payload POSTed to
// /auth/register. Personal fields are flattened (full name joined by a
// space, digits-only phone/cpf/license); driver drafts additionally carry
// JSON-encoded course and document metadata plus the raw file contents.
func BuildSubmission(d *Draft, open FileOpener) (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        d.Personal.FirstName + " " + d.Personal.LastName,
		"email":       d.Personal.Email,
		"password":    d.Personal.Password,
		"cpf":         common.DigitsOnly(d.Personal.CPF),
		"phoneNumber": common.DigitsOnly(d.Personal.Phone),
		"userType":    string(d.kind),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if d.kind == KindDriver {
		if err := writeDriverFields(w, d); err != nil {
			return "", nil, err
		}
		if err := writeFiles(w, d.documents, open); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func writeDriverFields(w *multipart.Writer, d *Draft) error {
	if d.Driver.LicenseNumber != "" {
		if err := w.WriteField("cnh", common.DigitsOnly(d.Driver.LicenseNumber)); err != nil {
			return err
		}
	}
	if d.Driver.LicenseExpiration != "" {
		if err := w.WriteField("cnhExpiration", d.Driver.LicenseExpiration); err != nil {
			return err
		}
	}

	courseIDs := make([]string, 0, len(d.selectedCourses))
	for _, c := range d.selectedCourses {
		courseIDs = append(courseIDs, c.ID)
	}
	if err := writeJSONField(w, "courseTypes", courseIDs); err != nil {
		return err
	}
	details := d.courseDetails
	if details == nil {
		details = []CourseDetail{}
	}
	if err := writeJSONField(w, "courses", details); err != nil {
		return err
	}

	metadata := make([]documentMetadata, 0, len(d.documents))
	for _, doc := range d.documents {
		metadata = append(metadata, documentMetadata{
			DocumentTypeID: doc.DocumentTypeID,
			Filename:       doc.Name,
		})
	}
	return writeJSONField(w, "documents", metadata)
}

func writeJSONField(w *multipart.Writer, name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", name, err)
	}
	return w.WriteField(name, string(encoded))
}

func writeFiles(w *multipart.Writer, docs []Document, open FileOpener) error {
	for _, doc := range docs {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(doc.Name)))
		header.Set("Content-Type", doc.MIMEType)

		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}

		content, err := open(doc.Path)
		if err != nil {
			return fmt.Errorf("open document %s: %w", doc.Name, err)
		}
		_, err = io.Copy(part, content)
		content.Close()
		if err != nil {
			return fmt.Errorf("read document %s: %w", doc.Name, err)
		}
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
