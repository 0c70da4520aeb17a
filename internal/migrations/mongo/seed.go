package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roombook/internal/reservations/repository"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// SeedFile is the TOML layout accepted by the seed command:
//
//	[[spaces]]
//	name = "Focus Room"
//	location = "3F East"
//
//	[[members]]
//	nickname = "alice"
//	authority = "USER"
type SeedFile struct {
	Spaces  []model.Space  `toml:"spaces"`
	Members []model.Member `toml:"members"`
}

// SeedResult maps seeded names to their stored ids.
type SeedResult struct {
	Spaces  map[string]string
	Members map[string]string
}

func LoadSeedFile(path string) (*SeedFile, error) {
	var file SeedFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	if err := file.normalize(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return &file, nil
}

func (f *SeedFile) normalize() error {
	var errs []error

	names := map[string]bool{}
	for i := range f.Spaces {
		s := &f.Spaces[i]
		s.Name = sanitizer.NormalizeName(s.Name)
		s.Location = sanitizer.TrimAndNormalize(s.Location)
		s.Description = sanitizer.TrimAndNormalize(s.Description)
		if s.Name == "" || s.Location == "" {
			errs = append(errs, fmt.Errorf("space %d: name and location are required", i+1))
			continue
		}
		key := sanitizer.NameKey(s.Name)
		if names[key] {
			errs = append(errs, fmt.Errorf("space %d: duplicate name %q", i+1, s.Name))
		}
		names[key] = true
	}

	nicknames := map[string]bool{}
	for i := range f.Members {
		m := &f.Members[i]
		m.Nickname = sanitizer.NormalizeName(m.Nickname)
		m.Authority = strings.ToUpper(strings.TrimSpace(m.Authority))
		if m.Authority == "" {
			m.Authority = model.RoleUser
		}
		if m.Nickname == "" {
			errs = append(errs, fmt.Errorf("member %d: nickname is required", i+1))
			continue
		}
		if m.Authority != model.RoleUser && m.Authority != model.RoleAdmin {
			errs = append(errs, fmt.Errorf("member %d: authority must be USER or ADMIN, got %q", i+1, m.Authority))
		}
		if nicknames[m.Nickname] {
			errs = append(errs, fmt.Errorf("member %d: duplicate nickname %q", i+1, m.Nickname))
		}
		nicknames[m.Nickname] = true
	}

	return errors.Join(errs...)
}

// Seed upserts spaces by name and members by nickname, so running it twice
// leaves the same documents in place.
func Seed(ctx context.Context, db *mongo.Database, file *SeedFile, now time.Time, log *logger.Logger) (*SeedResult, error) {
	result := &SeedResult{
		Spaces:  map[string]string{},
		Members: map[string]string{},
	}

	spaces := db.Collection(repository.SpacesCollection)
	for _, s := range file.Spaces {
		id, err := upsert(ctx, spaces, bson.M{"name": s.Name}, bson.M{
			"name":        s.Name,
			"location":    s.Location,
			"description": s.Description,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("failed to seed space %q: %w", s.Name, err)
		}
		result.Spaces[s.Name] = id
	}

	members := db.Collection(repository.MembersCollection)
	for _, m := range file.Members {
		id, err := upsert(ctx, members, bson.M{"nickname": m.Nickname}, bson.M{
			"nickname":  m.Nickname,
			"authority": m.Authority,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("failed to seed member %q: %w", m.Nickname, err)
		}
		result.Members[m.Nickname] = id
	}

	log.Info("Seed applied", "spaces", len(result.Spaces), "members", len(result.Members))
	return result, nil
}

func upsert(ctx context.Context, coll *mongo.Collection, filter, fields bson.M, now time.Time) (string, error) {
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return "", err
	}
	return doc.ID.Hex(), nil
}
