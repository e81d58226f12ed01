package offers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"savoro/db"
	"savoro/mediahost"
	"savoro/models"
	"savoro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	DB    *db.DB
	Media *mediahost.Client
}

func NewHandler(database *db.DB, media *mediahost.Client) *Handler {
	return &Handler{DB: database, Media: media}
}

// codeTaken reports whether another offer already uses code. excludeID is the
// offer being edited ("" on create).
func (h *Handler) codeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	filter := bson.M{"code": code}
	if excludeID != "" {
		filter["offerid"] = bson.M{"$ne": excludeID}
	}
	n, err := h.DB.Offers.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return n > 0, nil
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

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	offer, bad := ValidateNew(inputFromForm(r.FormValue))
	if len(bad) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+strings.Join(bad, ", "))
		return
	}

	taken, err := h.codeTaken(r.Context(), offer.Code, "")
	if err != nil {
		http.Error(w, "Failed to check offer code", http.StatusInternalServerError)
		return
	}
	if taken {
		utils.RespondWithError(w, http.StatusBadRequest, "Offer code already exists")
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
		offer.Image = image
	}

	offer.OfferID = utils.GenerateID(14)
	offer.CreatedAt = time.Now().UTC()
	offer.UpdatedAt = offer.CreatedAt

	if _, err := h.DB.Offers.InsertOne(context.TODO(), offer); err != nil {
		// unique index closes the race the pre-check leaves open
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "Offer code already exists")
			return
		}
		http.Error(w, "Failed to insert offer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"ok":      true,
		"message": "Offer created successfully.",
		"data":    offer,
	})
}

// redeemableFilter is the store rendering of Redeemable: active flag set and
// now inside [validFrom, validUntil).
func redeemableFilter(now time.Time) bson.M {
	return bson.M{
		"isActive":   true,
		"validFrom":  bson.M{"$lte": now},
		"validUntil": bson.M{"$gt": now},
	}
}

// GetOffers lists offers currently redeemable.
func (h *Handler) GetOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listOffers(w, redeemableFilter(time.Now().UTC()))
}

// GetAllOffers is the admin listing: everything, including inactive and
// expired offers.
func (h *Handler) GetAllOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listOffers(w, bson.M{})
}

func (h *Handler) listOffers(w http.ResponseWriter, filter bson.M) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Offers.Find(context.TODO(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch offers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var list []models.Offer
	if err := cursor.All(context.TODO(), &list); err != nil {
		http.Error(w, "Error processing offers", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Offer{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offerID := ps.ByName("id")

	var offer models.Offer
	err := h.DB.Offers.FindOne(context.TODO(), bson.M{"offerid": offerID}).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Offer not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch offer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, offer)
}

func (h *Handler) EditOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offerID := ps.ByName("id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var existing models.Offer
	err := h.DB.Offers.FindOne(context.TODO(), bson.M{"offerid": offerID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Offer not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch offer", http.StatusInternalServerError)
		return
	}

	patched, bad := ValidatePatch(existing, inputFromForm(r.FormValue))
	if len(bad) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+strings.Join(bad, ", "))
		return
	}

	if patched.Code != existing.Code {
		taken, err := h.codeTaken(r.Context(), patched.Code, offerID)
		if err != nil {
			http.Error(w, "Failed to check offer code", http.StatusInternalServerError)
			return
		}
		if taken {
			utils.RespondWithError(w, http.StatusBadRequest, "Offer code already exists")
			return
		}
	}

	data, present, err := imageDataFromForm(w, r)
	if err != nil {
		return
	}

	set := bson.M{
		"title":           patched.Title,
		"description":     patched.Description,
		"discountPercent": patched.DiscountPercent,
		"code":            patched.Code,
		"validFrom":       patched.ValidFrom,
		"validUntil":      patched.ValidUntil,
		"isActive":        patched.IsActive,
		"minOrderAmount":  patched.MinOrderAmount,
		"image":           existing.Image,
		"updatedAt":       time.Now().UTC(),
	}
	apply := func() error {
		_, err := h.DB.Offers.UpdateOne(context.TODO(), bson.M{"offerid": offerID}, bson.M{"$set": set})
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
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "Offer code already exists")
			return
		}
		http.Error(w, "Failed to update offer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "message": "Offer updated"})
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offerID := ps.ByName("id")

	var existing models.Offer
	err := h.DB.Offers.FindOne(context.TODO(), bson.M{"offerid": offerID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Offer not found")
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch offer", http.StatusInternalServerError)
		return
	}

	if _, err := h.DB.Offers.DeleteOne(context.TODO(), bson.M{"offerid": offerID}); err != nil {
		http.Error(w, "Failed to delete offer", http.StatusInternalServerError)
		return
	}

	if existing.Image.DeleteRef != "" {
		h.Media.DeleteQuietly(r.Context(), existing.Image.DeleteRef)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "message": "Offer deleted"})
}
