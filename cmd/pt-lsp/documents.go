package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/pos"
)

type documentStore struct {
	eng engine.Engine

	mu   sync.RWMutex
	docs map[string]*document
}

func newDocumentStore(eng engine.Engine) *documentStore {
	return &documentStore{eng: eng, docs: make(map[string]*document)}
}

// document is an open text document and its live parse result.  When
// the last parse failed, err is set and res is nil.
type document struct {
	uri  string
	sess *engine.Session

	// serializes parses
	parse sync.Mutex

	mu      sync.RWMutex
	content []byte
	version int32
	pos     *pos.Doc
	res     *engine.Result
	err     error
}

// snapshot is a consistent view of a document.
type snapshot struct {
	content []byte
	pos     *pos.Doc
	res     *engine.Result
	err     error
}

func (d *document) snapshot() *snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &snapshot{content: d.content, pos: d.pos, res: d.res, err: d.err}
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) open(uri string) *document {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	doc := ds.docs[uri]
	if doc == nil {
		doc = &document{uri: uri, sess: engine.NewSession(ds.eng)}
		ds.docs[uri] = doc
	}
	return doc
}

// update reparses content.
func (d *document) update(ctx context.Context, content []byte, version int32) {
	d.parse.Lock()
	defer d.parse.Unlock()
	res, err := d.sess.Update(ctx, content)
	if err != nil {
		slog.Debug("parse failed", "uri", d.uri, "version", version, "error", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = content
	d.version = version
	d.pos = pos.NewDoc(content)
	d.res = res
	d.err = err
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	doc := ds.docs[uri]
	delete(ds.docs, uri)
	ds.mu.Unlock()
	if doc != nil {
		doc.sess.Close()
	}
}

func (ds *documentStore) closeAll() {
	ds.mu.Lock()
	docs := ds.docs
	ds.docs = make(map[string]*document)
	ds.mu.Unlock()
	for _, doc := range docs {
		doc.sess.Close()
	}
}
