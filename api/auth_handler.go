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
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/campushub/models"
	"github.com/campushub/campushub/utils"
)

const (
	usersCollection = "users"

	verifyOTPTTL = 24 * time.Hour
	resetOTPTTL  = 15 * time.Minute
)

// RegisterRequest represents the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyAccountRequest represents the payload for confirming the email OTP
type VerifyAccountRequest struct {
	OTP string `json:"otp"`
}

// SendResetOTPRequest represents the payload for requesting a reset OTP
type SendResetOTPRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the payload for resetting the password
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// Register handles user registration.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Register API]")

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Name, Email and Password are required", http.StatusBadRequest)
		return
	}

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var existingUser models.User
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		utils.RespondError(w, &logMessageBuilder, "User with this email already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, "Database error checking user", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	newUser := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := collection.InsertOne(ctx, newUser); err != nil {
		// The unique email index catches signups that raced past the
		// FindOne check above.
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, &logMessageBuilder, "User with this email already exists", http.StatusConflict)
			return
		}
		utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateToken(newUser.ID.Hex(), []byte(a.cfg.JWTSecret), a.tokenTTL())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	a.setAuthCookie(w, token)

	// Welcome mail is best-effort: a gateway outage must not fail signup.
	if emailErr := a.mailer.Send(req.Name, req.Email, "Welcome to CampusHub",
		fmt.Sprintf("Your account has been created with the email address %s.", req.Email),
		fmt.Sprintf("<p>Your account has been created with the email address <strong>%s</strong>.</p>", req.Email)); emailErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send welcome email: %v", emailErr))
	}

	utils.AddToLogMessage(&logMessageBuilder, "User registered successfully")
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"success": true})
}

// Login handles user login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Email and Password are required", http.StatusBadRequest)
		return
	}

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Same message as a wrong password so accounts cannot be enumerated.
			utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), []byte(a.cfg.JWTSecret), a.tokenTTL())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	a.setAuthCookie(w, token)

	utils.AddToLogMessage(&logMessageBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Login successful"})
}

// Logout clears the session cookie.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearAuthCookie(w)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out"})
}

// IsAuth reports whether the request carries a valid session.
func (a *API) IsAuth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// SendVerifyOTP generates and emails an account-verification OTP.
func (a *API) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Send Verify OTP API]")

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

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	if user.IsAccountVerified {
		utils.RespondError(w, &logMessageBuilder, "Account already verified", http.StatusBadRequest)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}

	update := bson.M{"$set": bson.M{
		"verify_otp":           otp,
		"verify_otp_expire_at": time.Now().Add(verifyOTPTTL).UnixMilli(),
		"updated_at":           time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to store OTP", http.StatusInternalServerError)
		return
	}

	if emailErr := a.mailer.Send(user.Name, user.Email, "Account Verification OTP",
		fmt.Sprintf("Your verification OTP is: %s", otp),
		fmt.Sprintf("<p>Your OTP is <strong>%s</strong>. Use it to verify the account linked to %s.</p>", otp, user.Email)); emailErr != nil {
		// OTP stays stored so a retry of this endpoint can resend it.
		utils.RespondError(w, &logMessageBuilder, "Failed to send verification email", http.StatusBadGateway)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Verification OTP sent")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Verification OTP sent to your email"})
}

// VerifyAccount confirms the email OTP and marks the account verified.
func (a *API) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Account API]")

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

	var req VerifyAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OTP == "" {
		utils.RespondError(w, &logMessageBuilder, "OTP is required", http.StatusBadRequest)
		return
	}

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	if err := utils.CheckOTP(user.VerifyOTP, req.OTP, user.VerifyOTPExpireAt, now); err != nil {
		if err == utils.ErrOTPExpired {
			utils.RespondError(w, &logMessageBuilder, "OTP expired", http.StatusBadRequest)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Invalid OTP", http.StatusBadRequest)
		}
		return
	}

	// Conditional update makes the OTP single-use: the filter re-checks the
	// code and expiry so two concurrent confirmations cannot both succeed.
	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": userID, "verify_otp": req.OTP, "verify_otp_expire_at": bson.M{"$gt": now.UnixMilli()}},
		bson.M{"$set": bson.M{
			"is_account_verified":  true,
			"verify_otp":           "",
			"verify_otp_expire_at": int64(0),
			"updated_at":           now,
		}})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to verify account", http.StatusInternalServerError)
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Invalid OTP", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Email verified successfully")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Email verified successfully"})
}

// SendResetOTP generates and emails a password-reset OTP.
func (a *API) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Send Reset OTP API]")

	var req SendResetOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "Email is required", http.StatusBadRequest)
		return
	}

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}

	update := bson.M{"$set": bson.M{
		"reset_otp":           otp,
		"reset_otp_expire_at": time.Now().Add(resetOTPTTL).UnixMilli(),
		"updated_at":          time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to store OTP", http.StatusInternalServerError)
		return
	}

	if emailErr := a.mailer.Send(user.Name, user.Email, "Password Reset OTP",
		fmt.Sprintf("Your OTP for password reset is: %s", otp),
		fmt.Sprintf("<p>Your OTP for resetting the password of %s is <strong>%s</strong>.</p>", user.Email, otp)); emailErr != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to send reset email", http.StatusBadGateway)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Reset OTP sent")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "OTP sent to your email"})
}

// ResetPassword confirms the reset OTP and replaces the password hash.
func (a *API) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Reset Password API]")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		utils.RespondError(w, &logMessageBuilder, "Email, OTP and new password are required", http.StatusBadRequest)
		return
	}

	collection := a.collection(usersCollection)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	if err := utils.CheckOTP(user.ResetOTP, req.OTP, user.ResetOTPExpireAt, now); err != nil {
		if err == utils.ErrOTPExpired {
			utils.RespondError(w, &logMessageBuilder, "OTP expired", http.StatusBadRequest)
		} else {
			utils.RespondError(w, &logMessageBuilder, "Invalid OTP", http.StatusBadRequest)
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	// Single-use clear, same conditional pattern as account verification.
	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": user.ID, "reset_otp": req.OTP, "reset_otp_expire_at": bson.M{"$gt": now.UnixMilli()}},
		bson.M{"$set": bson.M{
			"password":            string(hashedPassword),
			"reset_otp":           "",
			"reset_otp_expire_at": int64(0),
			"updated_at":          now,
		}})
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update password", http.StatusInternalServerError)
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Invalid OTP", http.StatusBadRequest)
		return
	}

	if emailErr := a.mailer.Send(user.Name, user.Email, "Password Reset",
		"Your password has been reset successfully as you requested.",
		"<p>Your password has been reset successfully as you requested.</p>"); emailErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send confirmation email: %v", emailErr))
	}

	utils.AddToLogMessage(&logMessageBuilder, "Password reset successfully")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Password has been reset successfully"})
}
