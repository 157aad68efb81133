package api

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campushub/campushub/models"
	"github.com/campushub/campushub/utils"
)

// UserData returns the authenticated user's profile.
func (a *API) UserData(w http.ResponseWriter, r *http.Request) {
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

	var user models.User
	if err := a.collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, nil, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"userData": map[string]interface{}{
			"name":              user.Name,
			"email":             user.Email,
			"isAccountVerified": user.IsAccountVerified,
		},
	})
}
