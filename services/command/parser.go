package command

import (
	"regexp"
	"strconv"
	"strings"
)

// ParserConfig controls the free-text delimiters the parser accepts. Only
// the collection-name field is delimited; everything else is positional.
type ParserConfig struct {
	// NameDelimiters is the open/close pair around a collection name,
	// single characters each. Double quotes are canonical; the asterisk
	// pair seen in older mail clients can be enabled instead.
	NameDelimiters [2]string
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{NameDelimiters: [2]string{`"`, `"`}}
}

// Parser turns an email subject line into a location tag and a Command.
type Parser struct {
	locationRe             *regexp.Regexp
	deletePostRe           *regexp.Regexp
	updatePostRe           *regexp.Regexp
	addCollectionRe        *regexp.Regexp
	updateCollectionRe     *regexp.Regexp
	deleteCollectionRe     *regexp.Regexp
	addPostCollectionRe    *regexp.Regexp
	updatePostCollectionRe *regexp.Regexp
	deletePostCollectionRe *regexp.Regexp
}

var postAttributes = map[string]bool{
	"caption":  true,
	"location": true,
}

var collectionAttributes = map[string]bool{
	"name":        true,
	"description": true,
}

func NewParser(cfg ParserConfig) *Parser {
	open := regexp.QuoteMeta(cfg.NameDelimiters[0])
	closeDelim := regexp.QuoteMeta(cfg.NameDelimiters[1])

	return &Parser{
		locationRe:             regexp.MustCompile(`^@([^@]+)@`),
		deletePostRe:           regexp.MustCompile(`^!deletepost\s+(\d+)`),
		updatePostRe:           regexp.MustCompile(`^!updatepost\s+(\d+)\s+\$(\w+)\s+(.+)`),
		addCollectionRe:        regexp.MustCompile(`^!addcollection\s+` + open + `([^` + closeDelim + `]+)` + closeDelim + `(?:\s+(.+))?`),
		updateCollectionRe:     regexp.MustCompile(`^!updatecollection\s+(\d+)\s+\$(\w+)\s+(.+)`),
		deleteCollectionRe:     regexp.MustCompile(`^!deletecollection\s+(\d+)`),
		addPostCollectionRe:    regexp.MustCompile(`^!addpostcollection\s+(\d+)\s+(\d+)`),
		updatePostCollectionRe: regexp.MustCompile(`^!updatepostcollection\s+(\d+)\s+(\d+)\s+\$(\w+)\s+(.+)`),
		deletePostCollectionRe: regexp.MustCompile(`^!deletepostcollection\s+(\d+)\s+(\d+)`),
	}
}

// Parse extracts the optional @location@ prefix and the first matching
// command. When nothing matches, the remaining subject becomes the caption
// of a CreatePost; whether that degrades to a no-op depends on the presence
// of an attachment, which is the executor's call.
func (p *Parser) Parse(subject string) (location *string, cmd Command, remaining string) {
	remaining = subject

	if m := p.locationRe.FindStringSubmatch(remaining); m != nil {
		loc := m[1]
		location = &loc
		remaining = strings.TrimLeft(remaining[len(m[0]):], " \t")
	}

	if m := p.deletePostRe.FindStringSubmatch(remaining); m != nil {
		if id, ok := parseID(m[1]); ok {
			return location, DeletePost{PostID: id}, remaining
		}
	}

	if m := p.updatePostRe.FindStringSubmatch(remaining); m != nil {
		if id, ok := parseID(m[1]); ok {
			if !postAttributes[m[2]] {
				return location, NoOp{Reason: NoOpInvalidAttribute}, remaining
			}
			return location, UpdatePost{PostID: id, Attribute: m[2], Value: m[3]}, remaining
		}
	}

	if m := p.addCollectionRe.FindStringSubmatch(remaining); m != nil {
		return location, CreateCollection{Name: m[1], Description: strings.TrimSpace(m[2])}, remaining
	}

	if m := p.updateCollectionRe.FindStringSubmatch(remaining); m != nil {
		if id, ok := parseID(m[1]); ok {
			if !collectionAttributes[m[2]] {
				return location, NoOp{Reason: NoOpInvalidAttribute}, remaining
			}
			return location, UpdateCollection{CollectionID: id, Attribute: m[2], Value: m[3]}, remaining
		}
	}

	if m := p.deleteCollectionRe.FindStringSubmatch(remaining); m != nil {
		if id, ok := parseID(m[1]); ok {
			return location, DeleteCollection{CollectionID: id}, remaining
		}
	}

	if m := p.addPostCollectionRe.FindStringSubmatch(remaining); m != nil {
		if postID, ok := parseID(m[1]); ok {
			if collectionID, ok := parseID(m[2]); ok {
				return location, AddPostToCollection{PostID: postID, CollectionID: collectionID}, remaining
			}
		}
	}

	if m := p.updatePostCollectionRe.FindStringSubmatch(remaining); m != nil {
		if postID, ok := parseID(m[1]); ok {
			if collectionID, ok := parseID(m[2]); ok {
				return location, UpdatePostCollectionAssociation{
					PostID:       postID,
					CollectionID: collectionID,
					Attribute:    m[3],
					Value:        m[4],
				}, remaining
			}
		}
	}

	if m := p.deletePostCollectionRe.FindStringSubmatch(remaining); m != nil {
		if postID, ok := parseID(m[1]); ok {
			if collectionID, ok := parseID(m[2]); ok {
				return location, RemovePostFromCollection{PostID: postID, CollectionID: collectionID}, remaining
			}
		}
	}

	return location, CreatePost{Caption: remaining, Location: location}, remaining
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
