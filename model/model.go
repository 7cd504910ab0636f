package model

import "github.com/google/uuid"

// All lists every table the service migrates, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Review{},
		&Media{},
		&Comment{},
		&Like{},
		&Bookmark{},
		&RestaurantBookmark{},
		&RestaurantFavorite{},
		&RestaurantVisit{},
		&Follow{},
		&Notification{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
