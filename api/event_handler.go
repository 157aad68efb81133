package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campushub/campushub/cache"
	"github.com/campushub/campushub/models"
	"github.com/campushub/campushub/utils"
)

const (
	eventsCollection = "events"
	eventsCacheKey   = "events:all"
	eventsCacheTTL   = 60 * time.Second
)

// EventRequest represents the payload for creating or updating an event
type EventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC 3339
}

func validateEventInput(name, description string, date time.Time, now time.Time) error {
	if name == "" {
		return fmt.Errorf("event name is required")
	}
	if len(name) > models.EventNameMaxLen {
		return fmt.Errorf("event name cannot exceed %d characters", models.EventNameMaxLen)
	}
	if description == "" {
		return fmt.Errorf("event description is required")
	}
	if len(description) > models.EventDescriptionMaxLen {
		return fmt.Errorf("description cannot exceed %d characters", models.EventDescriptionMaxLen)
	}
	if date.IsZero() {
		return fmt.Errorf("event date is required")
	}
	if !date.After(now) {
		return fmt.Errorf("event date must be in the future")
	}
	return nil
}

// ListEvents returns all events, newest event date first.
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Events API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if a.cache != nil {
		var cached []models.Event
		if err := a.cache.GetJSON(ctx, eventsCacheKey, &cached); err == nil {
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "events": cached})
			return
		} else if err != cache.ErrCacheMiss {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cache read failed for %s: %v", eventsCacheKey, err))
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := a.collection(eventsCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to fetch events", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to decode events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(ctx, eventsCacheKey, events, eventsCacheTTL); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Cache write failed for %s: %v", eventsCacheKey, err))
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "events": events})
}

// CreateEvent creates a new event owned by the authenticated user.
func (a *API) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Event API]")

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

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Invalid date format, expected RFC 3339", http.StatusBadRequest)
			return
		}
	}

	now := time.Now()
	if err := validateEventInput(req.Name, req.Description, date, now); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := a.collection(eventsCollection).InsertOne(ctx, event); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to save event", http.StatusInternalServerError)
		return
	}

	a.invalidateEventsCache(ctx, &logMessageBuilder)

	utils.AddToLogMessage(&logMessageBuilder, "Event created")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "event": event})
}

// UpdateEvent updates an event owned by the authenticated user.
func (a *API) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Event API]")

	event, ok := a.loadOwnedEvent(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := event.Name
	description := event.Description
	date := event.Date

	if req.Name != "" {
		name = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		description = strings.TrimSpace(req.Description)
	}
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Invalid date format, expected RFC 3339", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	now := time.Now()
	if err := validateEventInput(name, description, date, now); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        name,
		"description": description,
		"date":        date,
		"updated_at":  now,
	}}
	if _, err := a.collection(eventsCollection).UpdateOne(ctx, bson.M{"_id": event.ID}, update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update event", http.StatusInternalServerError)
		return
	}

	a.invalidateEventsCache(ctx, &logMessageBuilder)

	event.Name = name
	event.Description = description
	event.Date = date
	event.UpdatedAt = now

	utils.AddToLogMessage(&logMessageBuilder, "Event updated")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "event": event})
}

// DeleteEvent removes an event owned by the authenticated user.
func (a *API) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Event API]")

	event, ok := a.loadOwnedEvent(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := a.collection(eventsCollection).DeleteOne(ctx, bson.M{"_id": event.ID}); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to delete event", http.StatusInternalServerError)
		return
	}

	a.invalidateEventsCache(ctx, &logMessageBuilder)

	utils.AddToLogMessage(&logMessageBuilder, "Event deleted")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Event deleted successfully"})
}

// loadOwnedEvent fetches the event from the path id and enforces the owner
// check. On failure it writes the error response and returns ok=false.
func (a *API) loadOwnedEvent(w http.ResponseWriter, r *http.Request, logger *strings.Builder) (*models.Event, bool) {
	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, logger, "Invalid user ID", http.StatusUnauthorized)
		return nil, false
	}

	eventID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, logger, "Invalid event ID", http.StatusBadRequest)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var event models.Event
	if err := a.collection(eventsCollection).FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, logger, "Event not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, logger, "Database error", http.StatusInternalServerError)
		}
		return nil, false
	}

	if event.CreatedBy != userID {
		utils.RespondError(w, logger, "Not authorized to modify this event", http.StatusForbidden)
		return nil, false
	}

	return &event, true
}

func (a *API) invalidateEventsCache(ctx context.Context, logger *strings.Builder) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, eventsCacheKey); err != nil {
		utils.AddToLogMessage(logger, fmt.Sprintf("Cache invalidation failed for %s: %v", eventsCacheKey, err))
	}
}
