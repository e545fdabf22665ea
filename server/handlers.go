package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
	"github.com/teranos/ontograph/version"
)

type createRequest struct {
	Record     json.RawMessage `json:"record"`
	OwnedByID  uuid.UUID       `json:"ownedById"`
	ActorID    uuid.UUID       `json:"actorId"`
	OnConflict string          `json:"onConflict"`
}

type updateRequest struct {
	TypeToUpdate   *types.VersionedID `json:"typeToUpdate"`
	EntityToUpdate *types.VersionedID `json:"entityToUpdate"`
	Record         json.RawMessage    `json:"record"`
	ActorID        uuid.UUID          `json:"actorId"`
}

type archiveRequest struct {
	VersionedID types.VersionedID `json:"versionedId"`
	ActorID     uuid.UUID         `json:"actorId"`
}

type accountRequest struct {
	AccountID uuid.UUID `json:"accountId"`
}

// HandleQuery runs a structural query over the records of {kind}.
func (s *OntographServer) HandleQuery(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKind(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	sg, err := s.svc.ExecuteStructuralQuery(r.Context(), kind, body)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sg)
}

// HandleCreate creates one record or a list of records. The response
// mirrors the request: a single metadata object or a list.
func (s *OntographServer) HandleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKind(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	onConflict, ok := store.ParseConflictBehavior(req.OnConflict)
	if !ok {
		s.writeFailure(w, r, errors.MarkDeserialization(errors.Newf("unknown conflict behavior %q", req.OnConflict)))
		return
	}

	records, single, err := types.DecodeRecords(kind, req.Record)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	submissions := make([]store.Submission, len(records))
	for i, record := range records {
		submissions[i] = store.Submission{Record: record, OwnedByID: req.OwnedByID, ActorID: req.ActorID}
	}

	created, err := s.svc.CreateRecords(r.Context(), submissions, onConflict)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if !single {
		writeJSON(w, http.StatusCreated, created)
		return
	}
	if len(created) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, created[0])
}

// HandleUpdate stores a new version of an existing record.
func (s *OntographServer) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := recordKind(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	prior, field := req.EntityToUpdate, "entityToUpdate"
	if kind.IsOntology() {
		prior, field = req.TypeToUpdate, "typeToUpdate"
	}
	if prior == nil {
		s.writeFailure(w, r, errors.MarkDeserialization(errors.Newf("missing %s", field)))
		return
	}
	record, err := types.DecodeRecord(kind, req.Record)
	if err != nil {
		s.writeFailure(w, r, errors.MarkDeserialization(err))
		return
	}

	md, err := s.svc.UpdateRecord(r.Context(), *prior, record, req.ActorID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// HandleArchive archives the latest version of a record.
func (s *OntographServer) HandleArchive(w http.ResponseWriter, r *http.Request) {
	s.handleArchived(w, r, true)
}

// HandleUnarchive restores the latest version of a record.
func (s *OntographServer) HandleUnarchive(w http.ResponseWriter, r *http.Request) {
	s.handleArchived(w, r, false)
}

func (s *OntographServer) handleArchived(w http.ResponseWriter, r *http.Request, archive bool) {
	kind, ok := recordKind(w, r)
	if !ok {
		return
	}
	var req archiveRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if req.VersionedID.IsZero() {
		s.writeFailure(w, r, errors.MarkDeserialization(errors.New("missing versionedId")))
		return
	}

	var (
		md  types.Metadata
		err error
	)
	if archive {
		md, err = s.svc.Archive(r.Context(), kind, req.VersionedID, req.ActorID)
	} else {
		md, err = s.svc.Unarchive(r.Context(), kind, req.VersionedID, req.ActorID)
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// HandleInsertAccount registers an account. Without an id a new one is generated.
func (s *OntographServer) HandleInsertAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(w, r, &req); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if req.AccountID == uuid.Nil {
		req.AccountID = uuid.New()
	}
	if err := s.svc.InsertAccount(r.Context(), req.AccountID); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// HandleLatestEntities lists the latest version of every entity.
func (s *OntographServer) HandleLatestEntities(w http.ResponseWriter, r *http.Request) {
	vertices, err := s.svc.LatestEntities(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vertices)
}

// HandleLatestEntity returns the latest version of one entity.
func (s *OntographServer) HandleLatestEntity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		s.writeFailure(w, r, errors.MarkDeserialization(errors.Wrap(err, "entity id")))
		return
	}
	vertex, err := s.svc.LatestEntity(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vertex)
}

// HandleVersion reports build information.
func (s *OntographServer) HandleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}
