package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campushub/campushub/cache"
	"github.com/campushub/campushub/models"
	"github.com/campushub/campushub/utils"
)

const (
	notesCollection  = "notes"
	subjectsCacheKey = "notes:subjects"
	subjectsCacheTTL = 5 * time.Minute
)

// isPDFUpload checks the declared content type and extension before
// anything touches storage.
func isPDFUpload(contentType, filename string) bool {
	return contentType == "application/pdf" && strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// UploadNote stores a PDF and its metadata.
func (a *API) UploadNote(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Note API]")

	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	// Reject oversized bodies before buffering the file.
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxPDFBytes+(1<<20))
	if err := r.ParseMultipartForm(a.cfg.MaxPDFBytes); err != nil {
		utils.RespondError(w, &logMessageBuilder, "File too large or malformed form data", http.StatusBadRequest)
		return
	}

	subject := strings.TrimSpace(r.FormValue("subject"))
	section := strings.TrimSpace(r.FormValue("section"))
	if subject == "" || section == "" {
		utils.RespondError(w, &logMessageBuilder, "Subject and section are required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isPDFUpload(header.Header.Get("Content-Type"), header.Filename) {
		utils.RespondError(w, &logMessageBuilder, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}
	if header.Size > a.cfg.MaxPDFBytes {
		utils.RespondError(w, &logMessageBuilder, "File exceeds the maximum allowed size", http.StatusBadRequest)
		return
	}

	storedName := uuid.New().String() + ".pdf"
	pdfURL, err := a.storeNotePDF(r.Context(), file, storedName)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Error storing file %s", header.Filename), http.StatusInternalServerError)
		return
	}

	note := models.Note{
		ID:         primitive.NewObjectID(),
		Subject:    subject,
		Section:    section,
		PDFUrl:     pdfURL,
		FileName:   header.Filename,
		UploadedBy: userID,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := a.collection(notesCollection).InsertOne(ctx, note); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error saving note", http.StatusInternalServerError)
		return
	}

	if a.cache != nil {
		if err := a.cache.Delete(ctx, subjectsCacheKey); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cache invalidation failed: %v", err))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, "Note uploaded")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "note": note})
}

// storeNotePDF writes the file to S3 when a bucket is configured, local
// disk otherwise, and returns the value stored as pdf_url.
func (a *API) storeNotePDF(ctx context.Context, file io.Reader, storedName string) (string, error) {
	if a.files != nil {
		return a.files.Upload(ctx, file, "notes/"+storedName, "application/pdf")
	}
	return saveLocalPDF(a.cfg.UploadDir, storedName, file)
}

func saveLocalPDF(uploadDir, storedName string, file io.Reader) (string, error) {
	dir := filepath.Join(uploadDir, "notes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/uploads/notes/" + storedName, nil
}

// ListNotes returns notes newest-first, optionally filtered by subject
// and section.
func (a *API) ListNotes(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if subject := r.URL.Query().Get("subject"); subject != "" {
		filter["subject"] = subject
	}
	if section := r.URL.Query().Get("section"); section != "" {
		filter["section"] = section
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := a.collection(notesCollection).Find(ctx, filter, findOptions)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch notes", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		utils.RespondError(w, nil, "Failed to decode notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	// S3-backed entries store an object key; hand the client a download URL.
	if a.files != nil {
		for i := range notes {
			if !strings.HasPrefix(notes[i].PDFUrl, "/") {
				if url, err := a.files.PresignURL(ctx, notes[i].PDFUrl); err == nil {
					notes[i].PDFUrl = url
				}
			}
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "notes": notes})
}

// ListSubjects returns the distinct subjects notes have been filed under.
func (a *API) ListSubjects(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Subjects API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if a.cache != nil {
		var cached []string
		if err := a.cache.GetJSON(ctx, subjectsCacheKey, &cached); err == nil {
			utils.AddToLogMessage(&logMessageBuilder, "Subjects served from cache")
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "subjects": cached})
			return
		} else if err != cache.ErrCacheMiss {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cache read failed for %s: %v", subjectsCacheKey, err))
		}
	}

	raw, err := a.collection(notesCollection).Distinct(ctx, "subject", bson.M{})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch subjects", http.StatusInternalServerError)
		return
	}

	subjects := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			subjects = append(subjects, s)
		}
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(ctx, subjectsCacheKey, subjects, subjectsCacheTTL); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cache write failed for %s: %v", subjectsCacheKey, err))
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "subjects": subjects})
}
