package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category"
	catrepo "catalog-backend/internal/domains/category/repository"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "products"

// productDocument là layout lưu trong MongoDB. category là ObjectID của
// document trong collection categories; price lưu Decimal128.
type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Slug        string               `bson:"slug"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int64                `bson:"quantity"`
	Description string               `bson:"description"`
	URLImg      string               `bson:"urlImg"`
	Category    primitive.ObjectID   `bson:"category"`
	Status      shared.Status        `bson:"status"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

// populatedDocument là output của pipeline $lookup + $unwind
type populatedDocument struct {
	productDocument `bson:",inline"`
	CategoryDoc     *categoryRef `bson:"categoryDoc,omitempty"`
}

type categoryRef struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Status      shared.Status      `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *populatedDocument) toEntity() (*product.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("invalid price %q on product %s: %w", d.Price.String(), d.ID.Hex(), err)
	}

	p := &product.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Slug:        d.Slug,
		Price:       price,
		Quantity:    d.Quantity,
		Description: d.Description,
		URLImg:      d.URLImg,
		CategoryID:  d.Category.Hex(),
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CategoryDoc != nil {
		p.Category = &category.Category{
			ID:          d.CategoryDoc.ID.Hex(),
			Name:        d.CategoryDoc.Name,
			Slug:        d.CategoryDoc.Slug,
			Description: d.CategoryDoc.Description,
			Status:      d.CategoryDoc.Status,
			CreatedAt:   d.CategoryDoc.CreatedAt,
			UpdatedAt:   d.CategoryDoc.UpdatedAt,
		}
	}
	return p, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) product.ProductRepository {
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

// populatePipeline: $match → $lookup categories → $unwind (giữ product
// khi category không còn)
func populatePipeline(match bson.M, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: catrepo.CollectionName},
			{Key: "localField", Value: "category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "categoryDoc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$categoryDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
}

func (r *mongoRepository) aggregate(ctx context.Context, match bson.M, limit int64) ([]product.Product, error) {
	cursor, err := r.collection.Aggregate(ctx, populatePipeline(match, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var docs []populatedDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]product.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *mongoRepository) findOnePopulated(ctx context.Context, match bson.M) (*product.Product, error) {
	products, err := r.aggregate(ctx, match, 1)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, product.ErrProductNotFound
	}
	return &products[0], nil
}

// ========== READ ==========
func (r *mongoRepository) ListActive(ctx context.Context) ([]product.Product, error) {
	return r.aggregate(ctx, activeFilter(nil), 0)
}

func (r *mongoRepository) GetActiveByID(ctx context.Context, id string) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, product.ErrProductNotFound
	}
	return r.findOnePopulated(ctx, activeFilter(bson.M{"_id": oid}))
}

func (r *mongoRepository) GetActiveBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return r.findOnePopulated(ctx, activeFilter(bson.M{"slug": slug}))
}

func (r *mongoRepository) GetActiveBySlugInCategory(ctx context.Context, slug, categoryID string) (*product.Product, error) {
	catOID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, product.ErrProductNotFound
	}
	return r.findOnePopulated(ctx, activeFilter(bson.M{"slug": slug, "category": catOID}))
}

// ========== CREATE ==========
func (r *mongoRepository) Create(ctx context.Context, entity *product.Product) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(entity.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", entity.ID, err)
	}
	catOID, err := primitive.ObjectIDFromHex(entity.CategoryID)
	if err != nil {
		return nil, category.ErrCategoryNotFound
	}
	price, err := toDecimal128(entity.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %s: %w", entity.Price, err)
	}

	doc := productDocument{
		ID:          oid,
		Name:        entity.Name,
		Slug:        entity.Slug,
		Price:       price,
		Quantity:    entity.Quantity,
		Description: entity.Description,
		URLImg:      entity.URLImg,
		Category:    catOID,
		Status:      entity.Status,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, product.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return r.findOnePopulated(ctx, bson.M{"_id": oid})
}

// ========== UPDATE (find-and-modify) ==========
func (r *mongoRepository) Update(ctx context.Context, id string, patch product.Patch) (*product.Product, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Price != nil {
		price, err := toDecimal128(*patch.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %s: %w", patch.Price, err)
		}
		set["price"] = price
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.URLImg != nil {
		set["urlImg"] = *patch.URLImg
	}
	if patch.CategoryID != nil {
		catOID, err := primitive.ObjectIDFromHex(*patch.CategoryID)
		if err != nil {
			return nil, category.ErrCategoryNotFound
		}
		set["category"] = catOID
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// ========== DELETE (soft) ==========
func (r *mongoRepository) SoftDelete(ctx context.Context, id string) (*product.Product, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status":    shared.StatusDeleted,
		"updatedAt": time.Now().UTC(),
	}})
}

// findOneAndUpdate chỉ match record active, sau đó đọc lại bản populate
// theo _id (không lọc status để soft delete vẫn trả record)
func (r *mongoRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, product.ErrProductNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 1})

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = r.collection.FindOneAndUpdate(ctx, activeFilter(bson.M{"_id": oid}), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, product.ErrProductNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, product.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return r.findOnePopulated(ctx, bson.M{"_id": doc.ID})
}

// ========== INDEXES ==========
func (r *mongoRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_products_name"),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_products_slug"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_products_category_status"),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}
