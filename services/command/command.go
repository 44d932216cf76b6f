package command

// Kind identifies a parsed command variant. The values double as the audit
// column recorded for each inbound email.
type Kind string

const (
	KindCreatePost                      Kind = "createpost"
	KindDeletePost                      Kind = "deletepost"
	KindUpdatePost                      Kind = "updatepost"
	KindCreateCollection                Kind = "addcollection"
	KindUpdateCollection                Kind = "updatecollection"
	KindDeleteCollection                Kind = "deletecollection"
	KindAddPostToCollection             Kind = "addpostcollection"
	KindUpdatePostCollectionAssociation Kind = "updatepostcollection"
	KindRemovePostFromCollection        Kind = "deletepostcollection"
	KindNoOp                            Kind = "noop"
)

// Command is the closed set of intents an email subject can carry. The
// executor dispatches on the concrete type; adding a variant means touching
// the type switch, not appending another conditional to the parser chain.
type Command interface {
	Kind() Kind
}

// CreatePost is the fallback when no bang-command matches: the remaining
// subject becomes the caption.
type CreatePost struct {
	Caption  string
	Location *string
}

type DeletePost struct {
	PostID uint
}

type UpdatePost struct {
	PostID    uint
	Attribute string
	Value     string
}

type CreateCollection struct {
	Name        string
	Description string
}

type UpdateCollection struct {
	CollectionID uint
	Attribute    string
	Value        string
}

type DeleteCollection struct {
	CollectionID uint
}

type AddPostToCollection struct {
	PostID       uint
	CollectionID uint
}

// UpdatePostCollectionAssociation is parsed and acknowledged but mutates
// nothing: the association carries no columns beyond its two foreign keys.
type UpdatePostCollectionAssociation struct {
	PostID       uint
	CollectionID uint
	Attribute    string
	Value        string
}

type RemovePostFromCollection struct {
	PostID       uint
	CollectionID uint
}

// NoOp carries the reason nothing will happen, so the response and the
// reply email can say why.
type NoOp struct {
	Reason string
}

const (
	NoOpInvalidAttribute = "invalid attribute"
)

func (CreatePost) Kind() Kind                      { return KindCreatePost }
func (DeletePost) Kind() Kind                      { return KindDeletePost }
func (UpdatePost) Kind() Kind                      { return KindUpdatePost }
func (CreateCollection) Kind() Kind                { return KindCreateCollection }
func (UpdateCollection) Kind() Kind                { return KindUpdateCollection }
func (DeleteCollection) Kind() Kind                { return KindDeleteCollection }
func (AddPostToCollection) Kind() Kind             { return KindAddPostToCollection }
func (UpdatePostCollectionAssociation) Kind() Kind { return KindUpdatePostCollectionAssociation }
func (RemovePostFromCollection) Kind() Kind        { return KindRemovePostFromCollection }
func (NoOp) Kind() Kind                            { return KindNoOp }
