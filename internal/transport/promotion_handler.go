package transport

import (
	"net/http"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/middleware"
)

func (h *Handler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.catalog.Ads.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ads)
}

func (h *Handler) CreateAd(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateAdInput
	if !h.decode(w, r, &input) {
		return
	}

	ad, err := h.catalog.Ads.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, ad)
}

func (h *Handler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, domain.ErrAdNotFound)
	if !ok {
		return
	}

	var input domain.UpdateAdInput
	if !h.decode(w, r, &input) {
		return
	}

	ad, err := h.catalog.Ads.Update(r.Context(), id, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ad)
}

func (h *Handler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, domain.ErrAdNotFound)
	if !ok {
		return
	}

	if err := h.catalog.Ads.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.catalog.Offers.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, offers)
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateOfferInput
	if !h.decode(w, r, &input) {
		return
	}

	offer, err := h.catalog.Offers.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, offer)
}

func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, domain.ErrOfferNotFound)
	if !ok {
		return
	}

	var input domain.UpdateOfferInput
	if !h.decode(w, r, &input) {
		return
	}

	offer, err := h.catalog.Offers.Update(r.Context(), id, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, offer)
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, domain.ErrOfferNotFound)
	if !ok {
		return
	}

	if err := h.catalog.Offers.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
