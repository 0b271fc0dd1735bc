package grpc

import (
	"context"

	"github.com/dmitrijs2005/lifelog/internal/server/models"
	"github.com/dmitrijs2005/lifelog/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) buildRoutes() map[string]route {
	j, mm, ph, pl, ts, lp := s.svc.Journal, s.svc.MicroMemories, s.svc.Photos, s.svc.Places, s.svc.Tastes, s.svc.LifePhases
	return map[string]route{
		"Register": {public: true, handle: s.register},
		"Login":    {public: true, handle: s.login},

		"CreateJournal":      {handle: create(j.Create)},
		"UpdateJournal":      {handle: updateByID(j.Update)},
		"DeleteJournal":      {handle: deleteByID(j.Delete)},
		"GetJournal":         {handle: byID(j.Get)},
		"ListJournal":        {handle: list(j.List)},
		"JournalByDate":      {handle: byField("date", j.ByDate)},
		"SearchJournal":      {handle: byField("query", j.Search)},
		"JournalByMood":      {handle: byField("mood", j.ByMood)},
		"JournalByTag":       {handle: byField("tag", j.ByTag)},
		"JournalByContext":   {handle: byField("context", j.ByContext)},
		"JournalByLifePhase": {handle: byField("lifePhaseName", j.ByLifePhase)},

		"CreateMicroMemory":        {handle: create(mm.Create)},
		"DeleteMicroMemory":        {handle: deleteByID(mm.Delete)},
		"GetMicroMemory":           {handle: byID(mm.Get)},
		"ListMicroMemories":        {handle: list(mm.List)},
		"MicroMemoriesByMood":      {handle: byField("mood", mm.ByMood)},
		"MicroMemoriesByTag":       {handle: byField("tag", mm.ByTag)},
		"MicroMemoriesByLifePhase": {handle: byField("lifePhaseName", mm.ByLifePhase)},

		"UploadPhoto":       {handle: s.uploadPhoto},
		"DeletePhoto":       {handle: deleteByID(ph.Delete)},
		"GetPhoto":          {handle: byID(ph.Get)},
		"GetPhotoContent":   {handle: s.photoContent},
		"ListPhotos":        {handle: list(ph.List)},
		"PhotosByMood":      {handle: byField("mood", ph.ByMood)},
		"PhotosByTag":       {handle: byField("tag", ph.ByTag)},
		"PhotosByLifePhase": {handle: byField("lifePhaseName", ph.ByLifePhase)},

		"CreatePlace":       {handle: create(pl.Create)},
		"UpdatePlace":       {handle: updateByID(pl.Update)},
		"DeletePlace":       {handle: deleteByID(pl.Delete)},
		"GetPlace":          {handle: byID(pl.Get)},
		"ListPlaces":        {handle: list(pl.List)},
		"PlacesByStatus":    {handle: byField("status", pl.ByStatus)},
		"PlacesByType":      {handle: byField("type", pl.ByType)},
		"PlacesByTag":       {handle: byField("tag", pl.ByTag)},
		"PlacesByLifePhase": {handle: byField("lifePhaseName", pl.ByLifePhase)},

		"CreateTaste":       {handle: create(ts.Create)},
		"UpdateTaste":       {handle: updateByID(ts.Update)},
		"DeleteTaste":       {handle: deleteByID(ts.Delete)},
		"GetTaste":          {handle: byID(ts.Get)},
		"ListTastes":        {handle: list(ts.List)},
		"TastesByRating":    {handle: list(ts.ByRating)},
		"TastesByType":      {handle: byField("type", ts.ByType)},
		"SearchTastes":      {handle: byField("query", ts.Search)},
		"TastesByTag":       {handle: byField("tag", ts.ByTag)},
		"TastesByLifePhase": {handle: byField("lifePhaseName", ts.ByLifePhase)},

		"CreateLifePhase":   {handle: create(lp.Create)},
		"UpdateLifePhase":   {handle: updateByID(lp.Update)},
		"DeleteLifePhase":   {handle: deleteByID(lp.Delete)},
		"GetLifePhase":      {handle: byID(lp.Get)},
		"ListLifePhases":    {handle: list(lp.List)},
		"LifePhaseTimeline": {handle: byID(lp.Timeline)},
	}
}

func create[T, R any](fn func(context.Context, string, *T) (R, error)) handler {
	return func(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
		in := new(T)
		if err := decode(req, in); err != nil {
			return nil, err
		}
		return fn(ctx, owner, in)
	}
}

func updateByID[T, R any](fn func(context.Context, string, string, *T) (R, error)) handler {
	return func(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
		id, err := requiredStr(req, "id")
		if err != nil {
			return nil, err
		}
		in := new(T)
		if err := decode(req, in); err != nil {
			return nil, err
		}
		return fn(ctx, owner, id, in)
	}
}

func byID[R any](fn func(context.Context, string, string) (R, error)) handler {
	return func(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
		id, err := requiredStr(req, "id")
		if err != nil {
			return nil, err
		}
		return fn(ctx, owner, id)
	}
}

func deleteByID(fn func(context.Context, string, string) error) handler {
	return func(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
		id, err := requiredStr(req, "id")
		if err != nil {
			return nil, err
		}
		return nil, fn(ctx, owner, id)
	}
}

func list[R any](fn func(context.Context, string) (R, error)) handler {
	return func(ctx context.Context, owner string, _ *structpb.Struct) (any, error) {
		return fn(ctx, owner)
	}
}

// byField passes one string field of the request, converted to the
// service's parameter type (Mood, Date, plain string ...).
func byField[V ~string, R any](name string, fn func(context.Context, string, V) (R, error)) handler {
	return func(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
		return fn(ctx, owner, V(str(req, name)))
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	UserID      string `json:"userId"`
}

func newSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{AccessToken: s.AccessToken, Username: s.Username, UserID: s.UserID}
}

func (s *GRPCServer) register(ctx context.Context, _ string, req *structpb.Struct) (any, error) {
	var c credentials
	if err := decode(req, &c); err != nil {
		return nil, err
	}
	session, err := s.svc.Users.Register(ctx, c.Username, c.Password, c.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Registered", "username", session.Username)
	return newSessionResponse(session), nil
}

func (s *GRPCServer) login(ctx context.Context, _ string, req *structpb.Struct) (any, error) {
	var c credentials
	if err := decode(req, &c); err != nil {
		return nil, err
	}
	session, err := s.svc.Users.Login(ctx, c.Username, c.Password)
	if err != nil {
		return nil, err
	}
	return newSessionResponse(session), nil
}

// uploadRequest carries the file as base64 in "content" and the optional
// photo fields under "metadata".
type uploadRequest struct {
	Filename    string        `json:"filename"`
	ContentType string        `json:"contentType"`
	Content     []byte        `json:"content"`
	Metadata    *models.Photo `json:"metadata"`
}

func (s *GRPCServer) uploadPhoto(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
	var in uploadRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	file := services.PhotoFile{Filename: in.Filename, ContentType: in.ContentType, Content: in.Content}
	return s.svc.Photos.Upload(ctx, owner, file, in.Metadata)
}

type photoContentResponse struct {
	Photo   *models.Photo `json:"photo"`
	Content []byte        `json:"content"`
}

func (s *GRPCServer) photoContent(ctx context.Context, owner string, req *structpb.Struct) (any, error) {
	id, err := requiredStr(req, "id")
	if err != nil {
		return nil, err
	}
	photo, data, err := s.svc.Photos.Content(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return photoContentResponse{Photo: photo, Content: data}, nil
}
