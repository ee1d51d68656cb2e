package stubapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/models"
	"github.com/mmynk/stocktake/internal/service"
	"github.com/mmynk/stocktake/internal/storage"
)

// DateLayout is the format of dates in request and response bodies.
const DateLayout = "2006-01-02"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type typeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type unitRequest struct {
	Name        string  `json:"name"`
	YieldAmount float64 `json:"yield_amount"`
	Description string  `json:"description"`
}

type supplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productRequest struct {
	Name       string `json:"name"`
	TypeID     string `json:"type_id"`
	UnitID     string `json:"unit_id"`
	GroupID    string `json:"group_id"`
	SupplierID string `json:"supplier_id"`
}

type referenceJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	NewID    string        `json:"new_id"`
	Name     string        `json:"name"`
	Type     referenceJSON `json:"type"`
	Unit     referenceJSON `json:"unit"`
	Group    referenceJSON `json:"group"`
	Supplier referenceJSON `json:"supplier"`
}

type purchaseItemJSON struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	UnitID    string          `json:"unit_id,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	Total     string          `json:"total,omitempty"`
}

type purchaseRequest struct {
	SupplierID     string             `json:"supplier_id"`
	PurchaseDate   string             `json:"purchase_date"`
	Type           string             `json:"type"`
	Reference      string             `json:"reference"`
	Draft          bool               `json:"draft"`
	UnifySameItems bool               `json:"unify_same_items"`
	Items          []purchaseItemJSON `json:"items"`
}

type purchaseResponse struct {
	NewID        string             `json:"new_id"`
	Supplier     referenceJSON      `json:"supplier"`
	PurchaseDate string             `json:"purchase_date"`
	Type         string             `json:"type"`
	Reference    string             `json:"reference"`
	Draft        bool               `json:"draft"`
	Total        string             `json:"total"`
	CreatedAt    string             `json:"created_at"`
	Items        []purchaseItemJSON `json:"items"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	token, _, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) createProductType(c *gin.Context) {
	var req typeRequest
	if !bind(c, &req) {
		return
	}
	created(c)(s.catalog.CreateProductType(c.Request.Context(), models.ProductType{Name: req.Name, Description: req.Description}))
}

func (s *Server) createProductUnit(c *gin.Context) {
	var req unitRequest
	if !bind(c, &req) {
		return
	}
	created(c)(s.catalog.CreateProductUnit(c.Request.Context(), models.ProductUnit{
		Name: req.Name, Yield: req.YieldAmount, Description: req.Description,
	}))
}

func (s *Server) createProductGroup(c *gin.Context) {
	var req typeRequest
	if !bind(c, &req) {
		return
	}
	created(c)(s.catalog.CreateProductGroup(c.Request.Context(), models.ProductGroup{Name: req.Name, Description: req.Description}))
}

func (s *Server) createSupplier(c *gin.Context) {
	var req supplierRequest
	if !bind(c, &req) {
		return
	}
	created(c)(s.catalog.CreateSupplier(c.Request.Context(), models.Supplier{Name: req.Name, Email: req.Email}))
}

func (s *Server) listReferences(kind models.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		refs, err := s.catalog.ListReferences(c.Request.Context(), kind)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]referenceJSON, 0, len(refs))
		for _, ref := range refs {
			out = append(out, toReferenceJSON(ref))
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if !bind(c, &req) {
		return
	}
	p, err := s.catalog.CreateProduct(c.Request.Context(), storage.NewProduct{
		Name:       req.Name,
		TypeID:     req.TypeID,
		UnitID:     req.UnitID,
		GroupID:    req.GroupID,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (s *Server) createPurchase(c *gin.Context) {
	var req purchaseRequest
	if !bind(c, &req) {
		return
	}

	in := service.PurchaseRequest{
		SupplierID:     req.SupplierID,
		Reference:      req.Reference,
		Draft:          req.Draft,
		UnifySameItems: req.UnifySameItems,
	}
	if req.PurchaseDate != "" {
		date, err := time.Parse(DateLayout, req.PurchaseDate)
		if err != nil {
			writeError(c, errors.Join(service.ErrInvalidArgument, err))
			return
		}
		in.PurchaseDate = date
	}
	if req.Type != "" {
		typ, err := models.ParsePurchaseType(req.Type)
		if err != nil {
			writeError(c, errors.Join(service.ErrInvalidArgument, err))
			return
		}
		in.Type = typ
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.PurchaseItemRequest{
			ProductID: item.ProductID,
			UnitID:    item.UnitID,
			Quantity:  item.Quantity,
			Cost:      item.Cost,
		})
	}

	p, err := s.purchase.CreatePurchase(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchaseResponse(p))
}

func (s *Server) getPurchase(c *gin.Context) {
	p, err := s.purchase.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(p))
}

// listPurchases lists submitted orders, or drafts with ?draft=true.
func (s *Server) listPurchases(c *gin.Context) {
	drafts := false
	if v := c.Query("draft"); v != "" {
		var err error
		if drafts, err = strconv.ParseBool(v); err != nil {
			writeError(c, errors.Join(service.ErrInvalidArgument, err))
			return
		}
	}
	purchases, err := s.purchase.ListPurchases(c.Request.Context(), drafts)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]purchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toPurchaseResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, errors.Join(service.ErrInvalidArgument, err))
		return false
	}
	return true
}

func created(c *gin.Context) func(string, error) {
	return func(id string, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"new_id": id})
	}
}

// writeError maps service and storage errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, storage.ErrUnknownReference):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}

func toReferenceJSON(r models.Reference) referenceJSON {
	return referenceJSON{ID: r.ID, Name: r.Name}
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		NewID:    p.ID,
		Name:     p.Name,
		Type:     toReferenceJSON(p.Type),
		Unit:     toReferenceJSON(p.Unit),
		Group:    toReferenceJSON(p.Group),
		Supplier: toReferenceJSON(p.Supplier),
	}
}

func toPurchaseResponse(p *models.Purchase) purchaseResponse {
	out := purchaseResponse{
		NewID:        p.ID,
		Supplier:     toReferenceJSON(p.Supplier),
		PurchaseDate: p.PurchaseDate.Format(DateLayout),
		Reference:    p.Reference,
		Draft:        p.Draft,
		Total:        p.Total.StringFixed(2),
		CreatedAt:    time.Unix(p.CreatedAt, 0).UTC().Format(time.RFC3339),
		Items:        make([]purchaseItemJSON, 0, len(p.Lines)),
	}
	if !p.Draft {
		out.Type = p.Type.String()
	}
	for _, line := range p.Lines {
		out.Items = append(out.Items, purchaseItemJSON{
			ProductID: line.ProductID,
			Product:   line.ProductName,
			UnitID:    line.Unit.ID,
			Unit:      line.Unit.Name,
			Quantity:  line.Quantity,
			Cost:      line.UnitCost,
			Total:     line.LineTotal.StringFixed(2),
		})
	}
	return out
}
