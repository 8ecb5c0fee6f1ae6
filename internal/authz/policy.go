package authz

// Capability is the minimum privilege an action demands. Levels are ordered:
// a later capability implies everything a stricter check needs from the
// request pipeline, except Owner, which additionally requires the acting user
// to match the entity's owning-user field and is finalized in the service
// layer where the entity is loaded.
type Capability int

const (
	// Anyone allows anonymous callers
	Anyone Capability = iota
	// Authenticated requires a valid access token
	Authenticated
	// Owner requires authentication plus ownership of the target entity
	Owner
	// Admin requires the administrative role
	Admin
)

func (c Capability) String() string {
	switch c {
	case Anyone:
		return "anyone"
	case Authenticated:
		return "authenticated"
	case Owner:
		return "owner"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// Action identifies one routable operation
type Action string

const (
	ProductList     Action = "product.list"
	ProductRetrieve Action = "product.retrieve"
	ProductCreate   Action = "product.create"
	ProductUpdate   Action = "product.update"
	ProductPatch    Action = "product.patch"
	ProductDelete   Action = "product.delete"
	ProductFavorite Action = "product.favorite"

	CommentList     Action = "comment.list"
	CommentRetrieve Action = "comment.retrieve"
	CommentCreate   Action = "comment.create"
	CommentUpdate   Action = "comment.update"
	CommentPatch    Action = "comment.patch"
	CommentDelete   Action = "comment.delete"

	FavoriteList   Action = "favorite.list"
	FavoriteCreate Action = "favorite.create"
	FavoriteMine   Action = "favorite.mine"

	UploadImage Action = "upload.image"
)

// policy maps every action to its required capability. Declared in one place
// so the permission surface can be reviewed at a glance; the favorite action
// deliberately overrides the open product defaults with the stricter rule.
var policy = map[Action]Capability{
	ProductList:     Anyone,
	ProductRetrieve: Anyone,
	ProductCreate:   Admin,
	ProductUpdate:   Admin,
	ProductPatch:    Admin,
	ProductDelete:   Admin,
	ProductFavorite: Authenticated,

	CommentList:     Authenticated,
	CommentRetrieve: Authenticated,
	CommentCreate:   Authenticated,
	CommentUpdate:   Owner,
	CommentPatch:    Owner,
	CommentDelete:   Owner,

	FavoriteList:   Authenticated,
	FavoriteCreate: Authenticated,
	FavoriteMine:   Authenticated,

	UploadImage: Admin,
}

// Required returns the capability an action demands. Unknown actions resolve
// to Admin so a missing table entry fails closed.
func Required(action Action) Capability {
	if cap, ok := policy[action]; ok {
		return cap
	}
	return Admin
}
