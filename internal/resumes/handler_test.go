package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, svc *Service, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, userID, userID+"@example.com", "STUDENT")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartBody(t *testing.T, field, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func TestHandlerUploadAndList(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	router := newTestRouter(t, svc, "u-1")

	body, ct := multipartBody(t, "resume", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go, Kubernetes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created UploadResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Resume.ID == "" || created.Resume.Status != StatusIndexed || !created.Resume.IsIndexed {
		t.Fatalf("unexpected resume %+v", created.Resume)
	}
	if created.Resume.FileURL != "/api/v1/resumes/"+created.Resume.ID+"/download" {
		t.Fatalf("unexpected fileUrl %q", created.Resume.FileURL)
	}
	if !created.Parsing.Success || created.Parsing.SkillsFound != 2 || !created.Indexing.Success {
		t.Fatalf("unexpected stage outcomes %+v %+v", created.Parsing, created.Indexing)
	}

	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.Code)
	}
	var listed struct {
		Count   int              `json:"count"`
		Resumes []ResumeResponse `json:"resumes"`
	}
	if err := json.Unmarshal(listResp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Count != 1 || listed.Resumes[0].ID != created.Resume.ID {
		t.Fatalf("unexpected list %+v", listed)
	}
}

func TestHandlerUploadParseFailureStillCreated(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	router := newTestRouter(t, svc, "u-1")

	body, ct := multipartBody(t, "resume", "cv.pdf", "application/pdf", []byte("%PDF-1.4 broken"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/upload", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created UploadResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Resume.Status != StatusParseFailed || created.Parsing.Success || created.Parsing.Error == "" {
		t.Fatalf("unexpected outcome %+v", created)
	}
}

func TestHandlerUploadErrors(t *testing.T) {
	cases := []struct {
		name     string
		field    string
		fileName string
		ctype    string
		data     []byte
		wantCode int
		wantErr  string
	}{
		{name: "missing field", field: "file", fileName: "cv.pdf", ctype: "application/pdf", data: []byte("%PDF"), wantCode: http.StatusBadRequest, wantErr: "invalid_request"},
		{name: "plain text", field: "resume", fileName: "cv.txt", ctype: "text/plain", data: []byte("hello"), wantCode: http.StatusUnsupportedMediaType, wantErr: "unsupported_media_type"},
		{name: "too large", field: "resume", fileName: "cv.pdf", ctype: "application/pdf", data: bytes.Repeat([]byte("a"), MaxUploadBytes+1), wantCode: http.StatusRequestEntityTooLarge, wantErr: "payload_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, repo, _ := newTestService(t)
			router := newTestRouter(t, svc, "u-1")

			body, ct := multipartBody(t, tc.field, tc.fileName, tc.ctype, tc.data)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
			req.Header.Set("Content-Type", ct)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, resp.Code, resp.Body.String())
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error.Code != tc.wantErr {
				t.Fatalf("expected %s, got %s", tc.wantErr, payload.Error.Code)
			}
			if n, _ := repo.CountByUser(req.Context(), "u-1"); n != 0 {
				t.Fatalf("no record expected, got %d", n)
			}
		})
	}
}

func TestHandlerGetForeignResume(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	res, err := svc.Upload(t.Context(), "owner", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	router := newTestRouter(t, svc, "intruder")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(method, "/api/v1/resumes/"+res.Resume.ID, nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, resp.Code)
		}
	}
}

func TestHandlerDownloadStreamsLocalFile(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	data := docxFixture(t, "SKILLS", "Go")
	res, err := svc.Upload(t.Context(), "u-1", "cv.docx", docxType, data)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	router := newTestRouter(t, svc, "u-1")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+res.Resume.ID+"/download", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Equal(resp.Body.Bytes(), data) {
		t.Fatalf("unexpected body length %d", resp.Body.Len())
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="cv.docx"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}
