package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/services"
	"github.com/snapstack/snapstack/services/attachments"
	"github.com/snapstack/snapstack/services/command"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type webhookFixture struct {
	router  *gin.Engine
	posts   *mockPostRepository
	colls   *mockCollectionRepository
	links   *mockPostCollectionRepository
	inbound *mockInboundEmailRepository
	storage *mockStorageService
	mailer  *mockMailerService
}

func newWebhookFixture() *webhookFixture {
	gin.SetMode(gin.TestMode)
	log := getLogger()

	f := &webhookFixture{
		posts:   new(mockPostRepository),
		colls:   new(mockCollectionRepository),
		links:   new(mockPostCollectionRepository),
		inbound: new(mockInboundEmailRepository),
		storage: new(mockStorageService),
		mailer:  new(mockMailerService),
	}
	f.mailer.On("Enabled").Return(false).Maybe()

	repos := &repository.Repositories{
		PostRepository:           f.posts,
		CollectionRepository:     f.colls,
		PostCollectionRepository: f.links,
		InboundEmailRepository:   f.inbound,
	}

	svc := &services.Services{
		StorageService:     f.storage,
		MailerService:      f.mailer,
		CommandParser:      command.NewParser(command.DefaultParserConfig()),
		CommandExecutor:    command.NewExecutor(f.posts, f.colls, f.links, f.storage, nil, log),
		Notifier:           command.NewNotifier(f.mailer, log),
		AttachmentResolver: attachments.NewResolver(f.storage, log),
	}

	handler := NewInboundHandler(repos, svc, nil)
	router := gin.New()
	router.GET("/api/email-webhook", handler.Probe())
	router.OPTIONS("/api/email-webhook", handler.Preflight())
	router.POST("/api/email-webhook", handler.Receive())
	f.router = router
	return f
}

func (f *webhookFixture) expectDeliveryRecorded() {
	f.inbound.On("Create", mock.Anything, mock.AnythingOfType("*models.InboundEmail")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.InboundEmail).ID = "inmail_test"
		}).Return(true, nil)
	f.inbound.On("SetOutcome", mock.Anything, "inmail_test", mock.Anything, mock.Anything).Return(nil)
}

func inboundRequest(t *testing.T, fields map[string]string, attachment []byte, filename string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if attachment != nil {
		require.NoError(t, writer.WriteField("attachment-count", "1"))
		part, err := writer.CreateFormFile("attachment-1", filename)
		require.NoError(t, err)
		_, err = part.Write(attachment)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/email-webhook", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestWebhook_Probe(t *testing.T) {
	f := newWebhookFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/email-webhook", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "active")
}

func TestWebhook_Preflight(t *testing.T) {
	f := newWebhookFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/email-webhook", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebhook_CreatePostFromEmail(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.expectDeliveryRecorded()
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, "-cat.jpg")
	}), []byte("image-bytes"), mock.Anything).Return(nil)
	f.storage.On("GetPublicURL", mock.AnythingOfType("string")).Return("https://cdn.example.com/1-cat.jpg")
	f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.Caption == "dinner with friends" && p.ImageURL == "https://cdn.example.com/1-cat.jpg" &&
			p.Location != nil && *p.Location == "Paris"
	})).Return(nil)

	req := inboundRequest(t, map[string]string{
		"subject":    "@Paris@ dinner with friends",
		"from":       "Jane Doe <jane@example.com>",
		"Message-Id": "<msg-1@mail.example.com>",
	}, []byte("image-bytes"), "cat.jpg")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Post created successfully", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/1-cat.jpg", data["imageUrl"])
	f.posts.AssertExpectations(t)
	f.inbound.AssertExpectations(t)
}

func TestWebhook_CreatePostWithoutAttachment(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.expectDeliveryRecorded()

	req := inboundRequest(t, map[string]string{
		"subject":    "just words, no photo",
		"from":       "jane@example.com",
		"Message-Id": "<msg-2@mail.example.com>",
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No attachments found", resp["message"])
	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_DeletePostNotFound(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.expectDeliveryRecorded()
	f.posts.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)

	req := inboundRequest(t, map[string]string{
		"subject":    "!deletepost 99",
		"from":       "jane@example.com",
		"Message-Id": "<msg-3@mail.example.com>",
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Post not found, no action taken", resp["message"])
	f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWebhook_DuplicateDeliveryIgnored(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.inbound.On("Create", mock.Anything, mock.Anything).Return(false, nil)

	req := inboundRequest(t, map[string]string{
		"subject":    "!deletepost 42",
		"from":       "jane@example.com",
		"Message-Id": "<msg-4@mail.example.com>",
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Duplicate delivery ignored", resp["message"])
	f.posts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestWebhook_DeliveryEventAcknowledged(t *testing.T) {
	// Arrange
	f := newWebhookFixture()

	req := inboundRequest(t, map[string]string{
		"event-data": `{"event":"delivered"}`,
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Delivery event acknowledged", resp["message"])
	f.inbound.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhook_ExecutorFailureAnswers500(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.inbound.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.InboundEmail).ID = "inmail_test"
		}).Return(true, nil)
	f.inbound.On("SetOutcome", mock.Anything, "inmail_test", "updatepost", mock.MatchedBy(func(outcome string) bool {
		return strings.HasPrefix(outcome, "failed:")
	})).Return(nil)
	f.posts.On("UpdateField", mock.Anything, uint(7), "caption", "x").
		Return(assert.AnError)

	req := inboundRequest(t, map[string]string{
		"subject":    "!updatepost 7 $caption x",
		"from":       "jane@example.com",
		"Message-Id": "<msg-5@mail.example.com>",
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to process email", resp["error"])
	details := resp["details"].(map[string]interface{})
	assert.NotEmpty(t, details["message"])
	assert.NotEmpty(t, details["timestamp"])
	f.inbound.AssertExpectations(t)
}

func TestWebhook_InvalidAttributeIsBenign(t *testing.T) {
	// Arrange
	f := newWebhookFixture()
	f.expectDeliveryRecorded()

	req := inboundRequest(t, map[string]string{
		"subject":    "!updatepost 7 $color red",
		"from":       "jane@example.com",
		"Message-Id": "<msg-6@mail.example.com>",
	}, nil, "")

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid attribute, no action taken", resp["message"])
	f.posts.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
