package products

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"savoro/db"
	"savoro/mediahost"
	"savoro/models"
	"savoro/rdx"
	"savoro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	DB    *db.DB
	Cache *rdx.Cache
	Media *mediahost.Client
}

func NewHandler(database *db.DB, cache *rdx.Cache, media *mediahost.Client) *Handler {
	return &Handler{DB: database, Cache: cache, Media: media}
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// parseProductForm reads the multipart fields shared by create and edit.
// Edits are wholesale: every field is required both times.
func parseProductForm(r *http.Request) (models.Product, []string) {
	var missing []string
	var p models.Product

	p.Name = strings.TrimSpace(r.FormValue("name"))
	if p.Name == "" {
		missing = append(missing, "name")
	}
	p.Description = strings.TrimSpace(r.FormValue("description"))
	if p.Description == "" {
		missing = append(missing, "description")
	}
	p.Category = strings.TrimSpace(r.FormValue("category"))
	if p.Category == "" {
		missing = append(missing, "category")
	}

	priceStr := r.FormValue("price")
	if priceStr == "" {
		missing = append(missing, "price")
	} else {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			missing = append(missing, "price")
		}
		p.Price = price
	}

	p.Featured = r.FormValue("featured") == "true"
	return p, missing
}

// imageDataFromForm pulls the optional "image" file out of the form and
// validates and processes it. Returns the processed bytes and whether a file
// was present.
func imageDataFromForm(w http.ResponseWriter, r *http.Request) ([]byte, bool, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, false, nil
	}
	if err != nil {
		http.Error(w, "Error retrieving image file: "+err.Error(), http.StatusBadRequest)
		return nil, false, err
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return nil, false, fmt.Errorf("unsupported image type")
	}

	data, err := mediahost.Process(file)
	if err != nil {
		http.Error(w, "Invalid image file", http.StatusBadRequest)
		return nil, false, err
	}
	return data, true, nil
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	product, missing := parseProductForm(r)
	if len(missing) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+strings.Join(missing, ", "))
		return
	}

	data, present, err := imageDataFromForm(w, r)
	if err != nil {
		return
	}
	if present {
		image, err := h.Media.Upload(r.Context(), data)
		if err != nil {
			http.Error(w, "Failed to store image", http.StatusInternalServerError)
			return
		}
		product.Image = image
	}

	product.ProductID = utils.GenerateID(14)
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt

	if _, err := h.DB.Products.InsertOne(context.TODO(), product); err != nil {
		http.Error(w, "Failed to insert product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"ok":      true,
		"message": "Product created successfully.",
		"data":    product,
	})
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("featured") == "true" {
		filter["featured"] = true
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Products.Find(context.TODO(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var list []models.Product
	if err := cursor.All(context.TODO(), &list); err != nil {
		http.Error(w, "Error processing products", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("id")

	if cached, err := h.Cache.RdxGet(r.Context(), cacheKey(productID)); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	var product models.Product
	err := h.DB.Products.FindOne(context.TODO(), bson.M{"productid": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	if data, err := json.Marshal(product); err == nil {
		_ = h.Cache.RdxSet(r.Context(), cacheKey(productID), string(data))
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var existing models.Product
	err := h.DB.Products.FindOne(context.TODO(), bson.M{"productid": productID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	product, missing := parseProductForm(r)
	if len(missing) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+strings.Join(missing, ", "))
		return
	}

	data, present, err := imageDataFromForm(w, r)
	if err != nil {
		return
	}

	set := bson.M{
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price":       product.Price,
		"featured":    product.Featured,
		"image":       existing.Image,
		"updatedAt":   time.Now().UTC(),
	}
	apply := func() error {
		_, err := h.DB.Products.UpdateOne(context.TODO(), bson.M{"productid": productID}, bson.M{"$set": set})
		return err
	}

	if present {
		// Two-phase image replace: the new asset goes up first, the record
		// swaps to it, and only then is the old asset deleted.
		_, err = h.Media.Replace(r.Context(), data, existing.Image.DeleteRef, func(ref models.ImageRef) error {
			set["image"] = ref
			return apply()
		})
	} else {
		err = apply()
	}
	if err != nil {
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	if _, err := h.Cache.RdxDel(r.Context(), cacheKey(productID)); err != nil {
		log.Printf("Cache deletion failed for product %s: %v", productID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "message": "Product updated"})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("id")

	var existing models.Product
	err := h.DB.Products.FindOne(context.TODO(), bson.M{"productid": productID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	if _, err := h.DB.Products.DeleteOne(context.TODO(), bson.M{"productid": productID}); err != nil {
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}

	if existing.Image.DeleteRef != "" {
		h.Media.DeleteQuietly(r.Context(), existing.Image.DeleteRef)
	}
	_, _ = h.Cache.RdxDel(r.Context(), cacheKey(productID))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "message": "Product deleted"})
}
