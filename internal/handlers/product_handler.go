package handlers

import (
	"errors"
	"strconv"

	"catalogo/internal/errs"
	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Validation messages shown to API clients.
const (
	MsgInvalidID           = "ID no valido"
	MsgEmptyName           = "El nombre del Producto no puede ir vacio"
	MsgInvalidValue        = "Valor no valido"
	MsgEmptyPrice          = "El precio del Producto no puede ir vacio"
	MsgInvalidPrice        = "Precio no valido"
	MsgInvalidAvailability = "Valor para disponibilidad no valido"
)

var (
	idRules = []validation.Rule{
		{In: validation.Params, Field: "id", Tag: "integer", Message: MsgInvalidID},
	}

	productBodyRules = []validation.Rule{
		{In: validation.Body, Field: "name", Tag: "required", Message: MsgEmptyName},
		{In: validation.Body, Field: "price", Tag: "decimal", Message: MsgInvalidValue},
		{In: validation.Body, Field: "price", Tag: "required", Message: MsgEmptyPrice},
		{In: validation.Body, Field: "price", Check: positive, Message: MsgInvalidPrice},
	}

	availabilityRules = []validation.Rule{
		{In: validation.Body, Field: "availability", Tag: "oneof=true false 0 1", Message: MsgInvalidAvailability},
	}
)

// positive treats a JSON true as 1, so `"price": true` only fails the
// decimal rule.
func positive(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	f, ok := validation.Number(value)
	return ok && f > 0
}

func concat(lists ...[]validation.Rule) []validation.Rule {
	var out []validation.Rule
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service   *services.ProductService
	validator *validation.Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validator *validation.Validator) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers the product routes, each behind its validation rules.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.validator.Middleware(idRules...), h.HandleGetProductByID)
	productRoutes.Post("/", h.validator.Middleware(productBodyRules...), h.HandleCreateProduct)
	productRoutes.Put("/:id",
		h.validator.Middleware(concat(idRules, productBodyRules, availabilityRules)...),
		h.HandleUpdateProduct,
	)
	productRoutes.Patch("/:id", h.validator.Middleware(idRules...), h.HandleUpdateAvailability)
	productRoutes.Delete("/:id", h.validator.Middleware(idRules...), h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Success	200	{object}	ProductListResponse
//	@Router		/products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID retrieves a single product by its ID.
//
//	@Summary	Get a product by ID
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	ProductResponse
//	@Failure	400	{object}	errs.ValidationError
//	@Failure	404	{object}	errs.HTTPError
//	@Router		/products/{id} [get]
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return mapNotFound(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct creates a new product.
//
//	@Summary	Create a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		product	body		ProductRequest	true	"Product data"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	errs.ValidationError
//	@Router		/products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input := productInput(validation.BodyFrom(c))
	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct replaces name, price and availability of a product.
//
//	@Summary	Update a product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Product ID"
//	@Param		product	body		ProductRequest	true	"Product data"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	errs.ValidationError
//	@Failure	404		{object}	errs.HTTPError
//	@Router		/products/{id} [put]
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	input := productInput(validation.BodyFrom(c))
	product, err := h.service.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		return mapNotFound(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability flips the availability of a product.
//
//	@Summary	Toggle product availability
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	ProductResponse
//	@Failure	400	{object}	errs.ValidationError
//	@Failure	404	{object}	errs.HTTPError
//	@Router		/products/{id} [patch]
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.ToggleAvailability(c.UserContext(), id)
	if err != nil {
		return mapNotFound(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct deletes a product.
//
//	@Summary	Delete a product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	400	{object}	errs.ValidationError
//	@Failure	404	{object}	errs.HTTPError
//	@Router		/products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return mapNotFound(err)
	}
	return c.JSON(fiber.Map{"data": errs.MsgProductDeleted})
}

// productID parses the already validated :id param. Values too large for a
// uint cannot exist in storage and are reported as not found.
func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, strconv.IntSize)
	if err != nil {
		return 0, errs.NewNotFoundError(errs.MsgProductNotFound)
	}
	return uint(id), nil
}

func productInput(body map[string]any) models.ProductInput {
	input := models.ProductInput{Name: validation.ToString(body["name"])}
	input.Price, _ = validation.Number(body["price"])
	if availability, ok := validation.Bool(body["availability"]); ok {
		input.Availability = &availability
	}
	return input
}

func mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return errs.NewNotFoundError(errs.MsgProductNotFound)
	}
	return err
}

// ProductRequest documents the create and update payload.
type ProductRequest struct {
	Name         string  `json:"name" example:"Monitor Curvo de 49 Pulgadas"`
	Price        float64 `json:"price" example:"399"`
	Availability bool    `json:"availability" example:"true"`
}

// ProductResponse documents a single product envelope.
type ProductResponse struct {
	Data models.Product `json:"data"`
}

// ProductListResponse documents the list envelope.
type ProductListResponse struct {
	Data []models.Product `json:"data"`
}

// MessageResponse documents an envelope carrying a plain message.
type MessageResponse struct {
	Data string `json:"data" example:"Producto eliminado"`
}
