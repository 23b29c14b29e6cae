package postgres

import (
	"context"
	"encoding/json"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

// FindByUser returns the user's posts newest first.
func (r *postRepo) FindByUser(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT p.doc
		FROM posts p
		WHERE p.user_id = $1
		ORDER BY p.doc->>'timestamp' DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}

		if post, ok := model.DecodePost(doc); ok {
			posts = append(posts, post)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Upsert(ctx context.Context, post model.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO posts(id, user_id, doc) VALUES($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		post.ID,
		post.UserID,
		doc,
	)
	return err
}

// AppendComment adds comment to the post's comments array unless an identical element is already there.
func (r *postRepo) AppendComment(ctx context.Context, postID string, comment model.Comment) error {
	element, err := json.Marshal([]model.Comment{comment})
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		`UPDATE posts
		SET doc = jsonb_set(doc, '{comments}', COALESCE(doc->'comments', '[]'::jsonb) || $2::jsonb)
		WHERE id = $1 AND NOT COALESCE(doc->'comments', '[]'::jsonb) @> $2::jsonb`,
		postID,
		element,
	)
	return err
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}
