package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/pkg/auth"
)

// UserService handles account registration, login, and profile lookup
// with MongoDB
type UserService struct {
	collection *mongo.Collection
	jwtAuth    *auth.JWTAuth
}

// NewUserService creates a new user service
func NewUserService(db *database.MongoDB, jwtAuth *auth.JWTAuth) *UserService {
	return &UserService{
		collection: db.Collection(database.CollectionUsers),
		jwtAuth:    jwtAuth,
	}
}

// Register creates a new account and returns a token pair
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
		}
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrStorage, err)
	}

	log.Printf("✅ [USER] Registered %s", email)
	return s.issueTokens(user)
}

// Login verifies credentials and returns a token pair
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up user: %v", ErrStorage, err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	now := time.Now().UTC()
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"lastLoginAt": now}},
	)
	if err != nil {
		log.Printf("⚠️  [USER] Failed to record login time for %s: %v", email, err)
	}
	user.LastLoginAt = now

	return s.issueTokens(&user)
}

// GetByID retrieves a user (including usage stats) by hex id
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrStorage, err)
	}

	return &user, nil
}

func (s *UserService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	accessToken, refreshToken, err := s.jwtAuth.GenerateTokens(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}
