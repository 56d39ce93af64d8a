package models

// Collection names as stored in the document store.
const (
	CollectionIllustrations = "illustrazioni"
	CollectionKeychains     = "portachiavi"
	CollectionServices      = "servizi"
	CollectionStickers      = "stickers"
	CollectionPins          = "spille"
	CollectionCharms        = "charm"

	// CollectionItems backs the public /items façade.
	CollectionItems = "items"
)

// CatalogCollections lists the storefront collections in navigation order.
var CatalogCollections = []string{
	CollectionIllustrations,
	CollectionKeychains,
	CollectionServices,
	CollectionStickers,
	CollectionPins,
	CollectionCharms,
}

// OrderAttribute drives the display sequence of illustrations.
const OrderAttribute = "order"

// IsCatalogCollection reports whether name is one of the storefront collections.
func IsCatalogCollection(name string) bool {
	for _, c := range CatalogCollections {
		if c == name {
			return true
		}
	}
	return false
}
