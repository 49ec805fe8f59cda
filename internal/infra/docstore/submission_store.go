package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/xavierca1/unic-leads/internal/entity"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

// SubmissionStore writes submissions as documents of one collection. The
// document id is the submission id and createdAt is the server timestamp.
type SubmissionStore struct {
	client     *firestore.Client
	collection string
}

func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client for %s: %w", projectID, err)
	}
	return client, nil
}

func NewSubmissionStore(client *firestore.Client, collection string) *SubmissionStore {
	return &SubmissionStore{client: client, collection: collection}
}

func (s *SubmissionStore) Create(ctx context.Context, sub entity.Submission) (*entity.StoredSubmission, error) {
	meta := entity.ClientMetaFrom(ctx)

	ref, result, err := s.client.Collection(s.collection).Add(ctx, documentFor(sub, meta))
	if err != nil {
		return nil, usecase.NewStoreUnavailableError("add document to "+s.collection, err)
	}

	return entity.NewStoredSubmission(sub, ref.ID, result.UpdateTime, meta), nil
}

func documentFor(sub entity.Submission, meta entity.ClientMeta) map[string]interface{} {
	doc := map[string]interface{}{
		"fullName":  sub.FullName,
		"birthDate": sub.BirthDate,
		"phone":     sub.Phone,
		"source":    sub.Source,
		"status":    string(entity.StatusNew),
		"userAgent": meta.UserAgent,
		"referrer":  meta.Referrer,
		"createdAt": firestore.ServerTimestamp,
	}
	if sub.Telegram != "" {
		doc["telegram"] = sub.Telegram
	}
	return doc
}
