package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bitez/platform/internal/core/ports"
)

// RestaurantHandler serves restaurants, their menus and menu items. Reads are
// public; mutations are mounted behind Auth and RequireRole.
type RestaurantHandler struct {
	restaurants ports.RestaurantService
	menus       ports.MenuService
}

func NewRestaurantHandler(restaurants ports.RestaurantService, menus ports.MenuService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, menus: menus}
}

// CreateRestaurant creates a restaurant owned by the caller.
//
// @Summary      Create restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      restaurantCreateRequest  true  "Restaurant"
// @Success      201   {object}  restaurantResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /restaurants [post]
func (h *RestaurantHandler) CreateRestaurant(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	var req restaurantCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.restaurants.Create(c.Request().Context(), u.ID, ports.RestaurantInput{
		Name:     req.Name,
		Location: req.Location,
		Rating:   req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// ListRestaurants pages through all restaurants.
//
// @Summary      List restaurants
// @Tags         restaurants
// @Produce      json
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {array}   restaurantResponse
// @Router       /restaurants [get]
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	out, err := h.restaurants.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListMyRestaurants pages through the caller's restaurants.
//
// @Summary      List my restaurants
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {array}   restaurantResponse
// @Router       /restaurants/my [get]
func (h *RestaurantHandler) ListMyRestaurants(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	out, err := h.restaurants.ListMine(c.Request().Context(), u.ID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetRestaurant returns one restaurant.
//
// @Summary      Get restaurant
// @Tags         restaurants
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  restaurantResponse
// @Failure      404  {object}  errorResponse
// @Router       /restaurants/{id} [get]
func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.restaurants.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// UpdateRestaurant changes the provided fields of an owned restaurant.
//
// @Summary      Update restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Restaurant ID"
// @Param        body  body      restaurantUpdateRequest  true  "Fields to change"
// @Success      200   {object}  restaurantResponse
// @Failure      404   {object}  errorResponse
// @Router       /restaurants/{id} [put]
func (h *RestaurantHandler) UpdateRestaurant(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req restaurantUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.restaurants.Update(c.Request().Context(), u.ID, id, ports.RestaurantPatch{
		Name:     req.Name,
		Location: req.Location,
		Rating:   req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// DeleteRestaurant removes an owned restaurant with its menus.
//
// @Summary      Delete restaurant
// @Tags         restaurants
// @Security     BearerAuth
// @Param        id   path  string  true  "Restaurant ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /restaurants/{id} [delete]
func (h *RestaurantHandler) DeleteRestaurant(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.restaurants.Delete(c.Request().Context(), u.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateMenu adds a menu to an owned restaurant.
//
// @Summary      Create menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Restaurant ID"
// @Param        body  body      menuRequest  true  "Menu"
// @Success      201   {object}  menuResponse
// @Failure      404   {object}  errorResponse
// @Router       /restaurants/{id}/menus [post]
func (h *RestaurantHandler) CreateMenu(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req menuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.menus.CreateMenu(c.Request().Context(), u.ID, rid, req.Kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMenus lists the menus of a restaurant.
//
// @Summary      List menus
// @Tags         menus
// @Produce      json
// @Param        id   path     string  true  "Restaurant ID"
// @Success      200  {array}  menuResponse
// @Router       /restaurants/{id}/menus [get]
func (h *RestaurantHandler) ListMenus(c echo.Context) error {
	rid, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.menus.ListMenus(c.Request().Context(), rid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetMenu returns one menu of a restaurant.
//
// @Summary      Get menu
// @Tags         menus
// @Produce      json
// @Param        id       path      string  true  "Restaurant ID"
// @Param        menu_id  path      string  true  "Menu ID"
// @Success      200      {object}  menuResponse
// @Failure      404      {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id} [get]
func (h *RestaurantHandler) GetMenu(c echo.Context) error {
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	m, err := h.menus.GetMenu(c.Request().Context(), rid, mid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateMenu renames a menu.
//
// @Summary      Update menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "Restaurant ID"
// @Param        menu_id  path      string       true  "Menu ID"
// @Param        body     body      menuRequest  true  "Menu"
// @Success      200      {object}  menuResponse
// @Failure      404      {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id} [put]
func (h *RestaurantHandler) UpdateMenu(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	var req menuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.menus.UpdateMenu(c.Request().Context(), u.ID, rid, mid, req.Kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMenu removes a menu with its items.
//
// @Summary      Delete menu
// @Tags         menus
// @Security     BearerAuth
// @Param        id       path  string  true  "Restaurant ID"
// @Param        menu_id  path  string  true  "Menu ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id} [delete]
func (h *RestaurantHandler) DeleteMenu(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	if err := h.menus.DeleteMenu(c.Request().Context(), u.ID, rid, mid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateItem adds an item to a menu.
//
// @Summary      Create menu item
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Restaurant ID"
// @Param        menu_id  path      string                 true  "Menu ID"
// @Param        body     body      menuItemCreateRequest  true  "Item"
// @Success      201      {object}  menuItemResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items [post]
func (h *RestaurantHandler) CreateItem(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	var req menuItemCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.menus.CreateItem(c.Request().Context(), u.ID, rid, mid, ports.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.String(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// CreateItems adds several items to a menu at once. Either all of them are
// stored or none.
//
// @Summary      Create menu items in bulk
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path     string                true  "Restaurant ID"
// @Param        menu_id  path     string                true  "Menu ID"
// @Param        body     body     menuItemsBulkRequest  true  "Items"
// @Success      201      {array}  menuItemResponse
// @Failure      400      {object} errorResponse
// @Failure      404      {object} errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items/bulk [post]
func (h *RestaurantHandler) CreateItems(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	var req menuItemsBulkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := make([]ports.MenuItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		in = append(in, ports.MenuItemInput{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price.String(),
		})
	}
	items, err := h.menus.CreateItems(c.Request().Context(), u.ID, rid, mid, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, items)
}

// ListItems lists the items of a menu.
//
// @Summary      List menu items
// @Tags         menu-items
// @Produce      json
// @Param        id       path     string  true  "Restaurant ID"
// @Param        menu_id  path     string  true  "Menu ID"
// @Success      200      {array}  menuItemResponse
// @Failure      404      {object} errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items [get]
func (h *RestaurantHandler) ListItems(c echo.Context) error {
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	out, err := h.menus.ListItems(c.Request().Context(), rid, mid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GetItem returns one menu item.
//
// @Summary      Get menu item
// @Tags         menu-items
// @Produce      json
// @Param        id       path      string  true  "Restaurant ID"
// @Param        menu_id  path      string  true  "Menu ID"
// @Param        item_id  path      string  true  "Item ID"
// @Success      200      {object}  menuItemResponse
// @Failure      404      {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items/{item_id} [get]
func (h *RestaurantHandler) GetItem(c echo.Context) error {
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	iid, err := pathUUID(c, "item_id")
	if err != nil {
		return err
	}
	item, err := h.menus.GetItem(c.Request().Context(), rid, mid, iid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem changes the provided fields of a menu item.
//
// @Summary      Update menu item
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Restaurant ID"
// @Param        menu_id  path      string                 true  "Menu ID"
// @Param        item_id  path      string                 true  "Item ID"
// @Param        body     body      menuItemUpdateRequest  true  "Fields to change"
// @Success      200      {object}  menuItemResponse
// @Failure      404      {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items/{item_id} [put]
func (h *RestaurantHandler) UpdateItem(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	iid, err := pathUUID(c, "item_id")
	if err != nil {
		return err
	}
	var req menuItemUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.menus.UpdateItem(c.Request().Context(), u.ID, rid, mid, iid, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes a menu item.
//
// @Summary      Delete menu item
// @Tags         menu-items
// @Security     BearerAuth
// @Param        id       path  string  true  "Restaurant ID"
// @Param        menu_id  path  string  true  "Menu ID"
// @Param        item_id  path  string  true  "Item ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /restaurants/{id}/menus/{menu_id}/items/{item_id} [delete]
func (h *RestaurantHandler) DeleteItem(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	rid, mid, err := menuPath(c)
	if err != nil {
		return err
	}
	iid, err := pathUUID(c, "item_id")
	if err != nil {
		return err
	}
	if err := h.menus.DeleteItem(c.Request().Context(), u.ID, rid, mid, iid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func menuPath(c echo.Context) (restaurantID, menuID uuid.UUID, err error) {
	if restaurantID, err = pathUUID(c, "id"); err != nil {
		return
	}
	menuID, err = pathUUID(c, "menu_id")
	return
}
