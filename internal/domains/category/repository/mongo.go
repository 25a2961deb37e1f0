package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName là tên collection category trong MongoDB.
// Product repository dùng nó cho $lookup.
const CollectionName = "categories"

// categoryDocument là layout lưu trong MongoDB
type categoryDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Status      shared.Status      `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *categoryDocument) toEntity() *category.Category {
	return &category.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) category.CategoryRepository {
	return &mongoRepository{
		collection: db.Collection(CollectionName),
	}
}

func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"status": shared.StatusActive}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

// ========== READ ==========
func (r *mongoRepository) ListActive(ctx context.Context) ([]category.Category, error) {
	cursor, err := r.collection.Find(ctx, activeFilter(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]category.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, *docs[i].toEntity())
	}
	return categories, nil
}

func (r *mongoRepository) GetActiveByID(ctx context.Context, id string) (*category.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, category.ErrCategoryNotFound
	}
	return r.findOne(ctx, activeFilter(bson.M{"_id": oid}))
}

func (r *mongoRepository) GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error) {
	return r.findOne(ctx, activeFilter(bson.M{"slug": slug}))
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*category.Category, error) {
	var doc categoryDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return doc.toEntity(), nil
}

// ========== CREATE ==========
func (r *mongoRepository) Create(ctx context.Context, entity *category.Category) (*category.Category, error) {
	oid, err := primitive.ObjectIDFromHex(entity.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id %q: %w", entity.ID, err)
	}

	doc := categoryDocument{
		ID:          oid,
		Name:        entity.Name,
		Slug:        entity.Slug,
		Description: entity.Description,
		Status:      entity.Status,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return doc.toEntity(), nil
}

// ========== UPDATE (find-and-modify) ==========
func (r *mongoRepository) Update(ctx context.Context, id string, patch category.Patch) (*category.Category, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// ========== DELETE (soft) ==========
func (r *mongoRepository) SoftDelete(ctx context.Context, id string) (*category.Category, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status":    shared.StatusDeleted,
		"updatedAt": time.Now().UTC(),
	}})
}

// findOneAndUpdate chỉ match record active: update/xoá record đã xoá => not found
func (r *mongoRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*category.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, category.ErrCategoryNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc categoryDocument
	err = r.collection.FindOneAndUpdate(ctx, activeFilter(bson.M{"_id": oid}), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, category.ErrCategoryNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return doc.toEntity(), nil
}

// ========== INDEXES ==========
// Unique index trên name và slug, không partial: record đã xoá vẫn giữ chỗ.
func (r *mongoRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_categories_name"),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_categories_slug"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_categories_status"),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	return nil
}
