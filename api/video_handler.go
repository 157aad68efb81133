package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campushub/campushub/models"
	"github.com/campushub/campushub/utils"
)

const analysesCollection = "analyses"

// AnalyzeVideo accepts a video upload and forwards it to the external
// analyzer service. The analysis itself happens outside this system.
func (a *API) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Analyze Video API]")

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

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxVideoBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, "File too large or malformed form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "No video uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
		utils.RespondError(w, &logMessageBuilder, "Only video files are allowed", http.StatusBadRequest)
		return
	}
	if header.Size > a.cfg.MaxVideoBytes {
		utils.RespondError(w, &logMessageBuilder, "Video exceeds the maximum allowed size", http.StatusBadRequest)
		return
	}

	// Buffer once so each retry attempt can resend the same bytes.
	videoBytes, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to read uploaded video", http.StatusInternalServerError)
		return
	}

	result, err := a.forwardToAnalyzer(r.Context(), header.Filename, videoBytes)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Analyzer call failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Video analysis service is unavailable", http.StatusBadGateway)
		return
	}

	analysis := models.Analysis{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FileName:  header.Filename,
		Result:    result,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := a.collection(analysesCollection).InsertOne(ctx, analysis); err != nil {
		// The analysis succeeded; losing the history record is not fatal.
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to record analysis: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, "Video analyzed")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "analysis": json.RawMessage(result)})
}

// forwardToAnalyzer posts the video to the analyzer service, retrying
// transient failures with exponential backoff.
func (a *API) forwardToAnalyzer(ctx context.Context, filename string, video []byte) (json.RawMessage, error) {
	client := &http.Client{Timeout: 2 * time.Minute}

	var result json.RawMessage
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("video", filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(video); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.AnalyzerURL+"/upload", &body)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("analyzer returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, payload)
		}

		result = payload
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAnalyses returns the authenticated user's past analysis runs,
// newest first.
func (a *API) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, nil, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := a.collection(analysesCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var analyses []models.Analysis
	if err := cursor.All(ctx, &analyses); err != nil {
		utils.RespondError(w, nil, "Failed to decode analyses", http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []models.Analysis{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "analyses": analyses})
}
