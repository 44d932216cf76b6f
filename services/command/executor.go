package command

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
)

// Outcome names the result of executing a command. Notification templates
// key off these values.
type Outcome string

const (
	OutcomePostCreated      Outcome = "post_created"
	OutcomePostDeleted      Outcome = "post_deleted"
	OutcomePostUpdated      Outcome = "post_updated"
	OutcomePostNotFound     Outcome = "post_not_found"
	OutcomeCollectionAdded  Outcome = "collection_created"
	OutcomeCollectionSaved  Outcome = "collection_updated"
	OutcomeCollectionGone   Outcome = "collection_deleted"
	OutcomeLinkAdded        Outcome = "link_added"
	OutcomeLinkExists       Outcome = "link_exists"
	OutcomeLinkRemoved      Outcome = "link_removed"
	OutcomeLinkAcknowledged Outcome = "link_acknowledged"
	OutcomeInvalidAttribute Outcome = "invalid_attribute"
	OutcomeNoAttachment     Outcome = "no_attachment"
	OutcomeNoOp             Outcome = "noop"
)

// Result is what a command execution produced. Err-free results are always
// answered with HTTP 200, including the benign no-ops.
type Result struct {
	Outcome Outcome
	Message string
	Data    map[string]interface{}
}

// Executor performs the store mutation for a parsed command. Collaborators
// are injected so tests run against mocks rather than a live backend.
type Executor struct {
	posts   interfaces.PostRepository
	colls   interfaces.CollectionRepository
	links   interfaces.PostCollectionRepository
	storage interfaces.StorageService
	events  interfaces.EventPublisher
	log     logger.Logger
}

func NewExecutor(
	posts interfaces.PostRepository,
	colls interfaces.CollectionRepository,
	links interfaces.PostCollectionRepository,
	storage interfaces.StorageService,
	events interfaces.EventPublisher,
	log logger.Logger,
) *Executor {
	return &Executor{
		posts:   posts,
		colls:   colls,
		links:   links,
		storage: storage,
		events:  events,
		log:     log,
	}
}

// Execute dispatches on the command variant. imageURL is the resolved
// attachment URL, empty when the email carried no attachment; only
// CreatePost looks at it. A non-nil error means an upstream (store or
// storage) failure that the webhook must answer with a 500.
func (e *Executor) Execute(ctx context.Context, cmd Command, imageURL string) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.Execute")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("command", string(cmd.Kind()))

	switch c := cmd.(type) {
	case CreatePost:
		return e.createPost(ctx, c, imageURL)
	case DeletePost:
		return e.deletePost(ctx, c)
	case UpdatePost:
		return e.updatePost(ctx, c)
	case CreateCollection:
		return e.createCollection(ctx, c)
	case UpdateCollection:
		return e.updateCollection(ctx, c)
	case DeleteCollection:
		return e.deleteCollection(ctx, c)
	case AddPostToCollection:
		return e.addPostToCollection(ctx, c)
	case UpdatePostCollectionAssociation:
		return e.acknowledgeAssociationUpdate(ctx, c)
	case RemovePostFromCollection:
		return e.removePostFromCollection(ctx, c)
	case NoOp:
		return e.noOp(c), nil
	default:
		err := errors.Errorf("unhandled command kind %s", cmd.Kind())
		tracing.TraceErr(span, err)
		return nil, err
	}
}

func (e *Executor) createPost(ctx context.Context, c CreatePost, imageURL string) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.createPost")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	// No attachment and no command: skip the email entirely.
	if imageURL == "" {
		return &Result{
			Outcome: OutcomeNoAttachment,
			Message: "No attachments found",
		}, nil
	}

	post := &models.Post{
		ImageURL: imageURL,
		Caption:  c.Caption,
		Location: c.Location,
	}
	if err := e.posts.Create(ctx, post); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "create post")
	}

	e.publish(ctx, "post.created", post)

	return &Result{
		Outcome: OutcomePostCreated,
		Message: "Post created successfully",
		Data: map[string]interface{}{
			"postId":   post.ID,
			"imageUrl": post.ImageURL,
			"caption":  post.Caption,
			"location": post.Location,
		},
	}, nil
}

func (e *Executor) deletePost(ctx context.Context, c DeletePost) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.deletePost")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	post, err := e.posts.GetByID(ctx, c.PostID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "fetch post")
	}
	if post == nil {
		return &Result{
			Outcome: OutcomePostNotFound,
			Message: "Post not found, no action taken",
		}, nil
	}

	if err := e.posts.Delete(ctx, c.PostID); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "delete post")
	}

	// Best effort: losing the stored image must not fail the command. The
	// orphan sweep picks up anything left behind.
	if key := post.StorageKey(); key != "" {
		if err := e.storage.Delete(ctx, key); err != nil {
			tracing.TraceErr(span, err)
			e.log.Warnf("could not delete stored image %s: %v", key, err)
		}
	}

	e.publish(ctx, "post.deleted", map[string]interface{}{"postId": c.PostID})

	return &Result{
		Outcome: OutcomePostDeleted,
		Message: "Post deleted successfully",
		Data:    map[string]interface{}{"postId": c.PostID},
	}, nil
}

func (e *Executor) updatePost(ctx context.Context, c UpdatePost) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.updatePost")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := e.posts.UpdateField(ctx, c.PostID, c.Attribute, c.Value); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "update post")
	}

	e.publish(ctx, "post.updated", map[string]interface{}{
		"postId":    c.PostID,
		"attribute": c.Attribute,
	})

	return &Result{
		Outcome: OutcomePostUpdated,
		Message: "Post updated successfully",
		Data: map[string]interface{}{
			"postId":    c.PostID,
			"attribute": c.Attribute,
			"value":     c.Value,
		},
	}, nil
}

func (e *Executor) createCollection(ctx context.Context, c CreateCollection) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.createCollection")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	collection := &models.Collection{Name: c.Name}
	if c.Description != "" {
		description := c.Description
		collection.Description = &description
	}
	if err := e.colls.Create(ctx, collection); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "create collection")
	}

	e.publish(ctx, "collection.created", collection)

	return &Result{
		Outcome: OutcomeCollectionAdded,
		Message: fmt.Sprintf("Collection %q created successfully", collection.Name),
		Data: map[string]interface{}{
			"collectionId": collection.ID,
			"name":         collection.Name,
		},
	}, nil
}

func (e *Executor) updateCollection(ctx context.Context, c UpdateCollection) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.updateCollection")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := e.colls.UpdateField(ctx, c.CollectionID, c.Attribute, c.Value); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "update collection")
	}

	e.publish(ctx, "collection.updated", map[string]interface{}{
		"collectionId": c.CollectionID,
		"attribute":    c.Attribute,
	})

	return &Result{
		Outcome: OutcomeCollectionSaved,
		Message: "Collection updated successfully",
		Data: map[string]interface{}{
			"collectionId": c.CollectionID,
			"attribute":    c.Attribute,
			"value":        c.Value,
		},
	}, nil
}

func (e *Executor) deleteCollection(ctx context.Context, c DeleteCollection) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.deleteCollection")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	collection, err := e.colls.GetByID(ctx, c.CollectionID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "fetch collection")
	}
	if collection == nil {
		return &Result{
			Outcome: OutcomeNoOp,
			Message: "Collection not found, no action taken",
		}, nil
	}

	if err := e.colls.DeleteWithLinks(ctx, c.CollectionID); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "delete collection")
	}

	e.publish(ctx, "collection.deleted", map[string]interface{}{"collectionId": c.CollectionID})

	return &Result{
		Outcome: OutcomeCollectionGone,
		Message: "Collection deleted successfully",
		Data:    map[string]interface{}{"collectionId": c.CollectionID},
	}, nil
}

func (e *Executor) addPostToCollection(ctx context.Context, c AddPostToCollection) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.addPostToCollection")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	// Check-then-insert keeps retried deliveries from tripping the unique
	// constraint.
	exists, err := e.links.Exists(ctx, c.PostID, c.CollectionID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "check association")
	}
	if exists {
		return &Result{
			Outcome: OutcomeLinkExists,
			Message: "Post already in collection",
			Data: map[string]interface{}{
				"postId":       c.PostID,
				"collectionId": c.CollectionID,
			},
		}, nil
	}

	link := &models.PostCollection{PostID: c.PostID, CollectionID: c.CollectionID}
	if err := e.links.Create(ctx, link); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "create association")
	}

	e.publish(ctx, "collection.link.added", link)

	return &Result{
		Outcome: OutcomeLinkAdded,
		Message: "Post added to collection",
		Data: map[string]interface{}{
			"postId":       c.PostID,
			"collectionId": c.CollectionID,
		},
	}, nil
}

func (e *Executor) acknowledgeAssociationUpdate(ctx context.Context, c UpdatePostCollectionAssociation) (*Result, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "Executor.acknowledgeAssociationUpdate")
	defer span.Finish()

	// The association has no mutable columns. Accepted, nothing written.
	return &Result{
		Outcome: OutcomeLinkAcknowledged,
		Message: "Association update acknowledged, no fields to update",
		Data: map[string]interface{}{
			"postId":       c.PostID,
			"collectionId": c.CollectionID,
			"attribute":    c.Attribute,
		},
	}, nil
}

func (e *Executor) removePostFromCollection(ctx context.Context, c RemovePostFromCollection) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Executor.removePostFromCollection")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := e.links.Delete(ctx, c.PostID, c.CollectionID); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "delete association")
	}

	e.publish(ctx, "collection.link.removed", map[string]interface{}{
		"postId":       c.PostID,
		"collectionId": c.CollectionID,
	})

	return &Result{
		Outcome: OutcomeLinkRemoved,
		Message: "Post removed from collection",
		Data: map[string]interface{}{
			"postId":       c.PostID,
			"collectionId": c.CollectionID,
		},
	}, nil
}

func (e *Executor) noOp(c NoOp) *Result {
	if c.Reason == NoOpInvalidAttribute {
		return &Result{
			Outcome: OutcomeInvalidAttribute,
			Message: "Invalid attribute, no action taken",
		}
	}
	return &Result{
		Outcome: OutcomeNoOp,
		Message: "No action taken",
	}
}

// publish fans the event out when a broker is configured. Publish failures
// never fail the command.
func (e *Executor) publish(ctx context.Context, routingKey string, payload interface{}) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, routingKey, payload); err != nil {
		e.log.Warnf("could not publish %s event: %v", routingKey, err)
	}
}
