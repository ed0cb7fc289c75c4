package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection          = "users"
	favoriteEventsCollection = "favoriteEvents"
	eventsCollection         = "events"
	outfitsCollection        = "outfits"
	wardrobeCollection       = "wardrobe"
	tokensCollection         = "tokens"
	pushTokenDocument        = "push"
)

// NewFirestoreRepositories returns repositories backed by Cloud Firestore. Documents follow the
// layout users/{uid} with the favoriteEvents, wardrobe and tokens subcollections, events/{eventId}
// and outfits/{outfitId}.
func NewFirestoreRepositories(client *firestore.Client) Repositories {
	now := utcNow
	return &repositories{
		userRepository:     &firestoreUser{client: client, now: now},
		eventRepository:    &firestoreEvent{client: client, now: now},
		outfitRepository:   &firestoreOutfit{client: client, now: now},
		voteRepository:     &firestoreVote{client: client, now: now},
		wardrobeRepository: &firestoreWardrobe{client: client, now: now},
	}
}

// wrapFirestoreError maps gRPC codes to sentinels. The rpc text names project paths, so it is only
// logged and callers get a short description instead.
func wrapFirestoreError(err error) error {
	code := status.Code(err)
	switch code {
	case codes.NotFound:
		logrus.Debugf("Firestore %s: %v", code, err)
		return fmt.Errorf("%w: document not found", dto.ErrNotFound)
	case codes.AlreadyExists:
		logrus.Debugf("Firestore %s: %v", code, err)
		return fmt.Errorf("%w: document already exists", dto.ErrConflict)
	case codes.Unavailable, codes.DeadlineExceeded:
		logrus.Warnf("Firestore %s: %v", code, err)
		return fmt.Errorf("%w: document store is unavailable", dto.ErrUnavailable)
	default:
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (model.User, error) {
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return model.User{}, err
	}
	user.ID = snap.Ref.ID
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	if user.Votes == nil {
		user.Votes = model.Votes{}
	}
	for i := range user.Votes {
		user.Votes[i].UserID = user.ID
	}
	return user, nil
}

func decodeOutfit(snap *firestore.DocumentSnapshot) (model.Outfit, error) {
	var outfit model.Outfit
	if err := snap.DataTo(&outfit); err != nil {
		return model.Outfit{}, err
	}
	outfit.ID = snap.Ref.ID
	return outfit, nil
}

func decodeEvent(snap *firestore.DocumentSnapshot) (model.Event, error) {
	var event model.Event
	if err := snap.DataTo(&event); err != nil {
		return model.Event{}, err
	}
	event.ID = snap.Ref.ID
	return event, nil
}

func isEmpty(ctx context.Context, collection *firestore.CollectionRef) (bool, error) {
	snaps, err := collection.Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, wrapFirestoreError(err)
	}
	return len(snaps) == 0, nil
}

type firestoreUser struct {
	client *firestore.Client
	now    func() time.Time
}

func (f *firestoreUser) ref(id string) *firestore.DocumentRef {
	return f.client.Collection(usersCollection).Doc(id)
}

func (f *firestoreUser) GetByID(ctx context.Context, id string) (model.User, error) {
	snap, err := f.ref(id).Get(ctx)
	if err != nil {
		return model.User{}, wrapFirestoreError(err)
	}
	user, err := decodeUser(snap)
	if err != nil {
		return model.User{}, wrapFirestoreError(err)
	}
	return user, nil
}

func (f *firestoreUser) Create(ctx context.Context, user model.User) (model.User, error) {
	now := f.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Favorites = []string{}
	user.Votes = model.Votes{}

	if _, err := f.ref(user.ID).Create(ctx, user); err != nil {
		return model.User{}, wrapFirestoreError(err)
	}
	return user, nil
}

func (f *firestoreUser) Update(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	updates := []firestore.Update{{Path: "updatedAt", Value: f.now()}}
	if update.DisplayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: *update.DisplayName})
	}
	if update.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *update.PhotoURL})
	}
	if update.Preferences != nil {
		updates = append(updates, firestore.Update{Path: "preferences", Value: *update.Preferences})
	}

	if _, err := f.ref(id).Update(ctx, updates); err != nil {
		return model.User{}, wrapFirestoreError(err)
	}
	return f.GetByID(ctx, id)
}

func (f *firestoreUser) AddFavorite(ctx context.Context, userID, eventID string) error {
	userRef := f.ref(userID)
	favoriteRef := userRef.Collection(favoriteEventsCollection).Doc(eventID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return err
		}
		_, err := tx.Get(favoriteRef)
		switch status.Code(err) {
		case codes.OK:
			// Already saved: keep the original addedAt.
		case codes.NotFound:
			if err := tx.Set(favoriteRef, model.FavoriteEvent{AddedAt: f.now()}); err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "favorites", Value: firestore.ArrayUnion(eventID)},
		})
	})
	if err != nil {
		return wrapFirestoreError(err)
	}
	return nil
}

func (f *firestoreUser) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	userRef := f.ref(userID)
	favoriteRef := userRef.Collection(favoriteEventsCollection).Doc(eventID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return err
		}
		if err := tx.Delete(favoriteRef); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "favorites", Value: firestore.ArrayRemove(eventID)},
		})
	})
	if err != nil {
		return wrapFirestoreError(err)
	}
	return nil
}

func (f *firestoreUser) ListFavorites(ctx context.Context, userID string) ([]model.FavoriteEvent, error) {
	snaps, err := f.ref(userID).Collection(favoriteEventsCollection).
		OrderBy("addedAt", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreError(err)
	}

	favorites := make([]model.FavoriteEvent, 0, len(snaps))
	for _, snap := range snaps {
		var favorite model.FavoriteEvent
		if err := snap.DataTo(&favorite); err != nil {
			return nil, wrapFirestoreError(err)
		}
		favorite.UserID = userID
		favorite.EventID = snap.Ref.ID
		favorites = append(favorites, favorite)
	}
	return favorites, nil
}

func (f *firestoreUser) SavePushToken(ctx context.Context, token model.PushToken) (model.PushToken, error) {
	userRef := f.ref(token.UserID)
	tokenRef := userRef.Collection(tokensCollection).Doc(pushTokenDocument)
	token.CreatedAt = f.now()

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return err
		}
		return tx.Set(tokenRef, token)
	})
	if err != nil {
		return model.PushToken{}, wrapFirestoreError(err)
	}
	return token, nil
}

func (f *firestoreUser) GetPushToken(ctx context.Context, userID string) (model.PushToken, error) {
	snap, err := f.ref(userID).Collection(tokensCollection).Doc(pushTokenDocument).Get(ctx)
	if err != nil {
		return model.PushToken{}, wrapFirestoreError(err)
	}
	var token model.PushToken
	if err := snap.DataTo(&token); err != nil {
		return model.PushToken{}, wrapFirestoreError(err)
	}
	token.UserID = userID
	return token, nil
}

type firestoreEvent struct {
	client *firestore.Client
	now    func() time.Time
}

func (f *firestoreEvent) List(ctx context.Context) ([]model.Event, error) {
	snaps, err := f.client.Collection(eventsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreError(err)
	}

	events := make([]model.Event, 0, len(snaps))
	for _, snap := range snaps {
		event, err := decodeEvent(snap)
		if err != nil {
			return nil, wrapFirestoreError(err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (f *firestoreEvent) GetByID(ctx context.Context, id string) (model.Event, error) {
	snap, err := f.client.Collection(eventsCollection).Doc(id).Get(ctx)
	if err != nil {
		return model.Event{}, wrapFirestoreError(err)
	}
	event, err := decodeEvent(snap)
	if err != nil {
		return model.Event{}, wrapFirestoreError(err)
	}
	return event, nil
}

func (f *firestoreEvent) Save(ctx context.Context, event model.Event) (model.Event, error) {
	collection := f.client.Collection(eventsCollection)
	ref := collection.NewDoc()
	if event.ID != "" {
		ref = collection.Doc(event.ID)
	}
	event.ID = ref.ID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = f.now()
	}

	if _, err := ref.Set(ctx, event); err != nil {
		return model.Event{}, wrapFirestoreError(err)
	}
	return event, nil
}

func (f *firestoreEvent) IsEmpty(ctx context.Context) (bool, error) {
	return isEmpty(ctx, f.client.Collection(eventsCollection))
}

type firestoreOutfit struct {
	client *firestore.Client
	now    func() time.Time
}

func (f *firestoreOutfit) List(ctx context.Context) ([]model.Outfit, error) {
	snaps, err := f.client.Collection(outfitsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreError(err)
	}

	outfits := make([]model.Outfit, 0, len(snaps))
	for _, snap := range snaps {
		outfit, err := decodeOutfit(snap)
		if err != nil {
			return nil, wrapFirestoreError(err)
		}
		outfits = append(outfits, outfit)
	}
	return outfits, nil
}

func (f *firestoreOutfit) GetByID(ctx context.Context, id string) (model.Outfit, error) {
	snap, err := f.client.Collection(outfitsCollection).Doc(id).Get(ctx)
	if err != nil {
		return model.Outfit{}, wrapFirestoreError(err)
	}
	outfit, err := decodeOutfit(snap)
	if err != nil {
		return model.Outfit{}, wrapFirestoreError(err)
	}
	return outfit, nil
}

func (f *firestoreOutfit) Save(ctx context.Context, outfit model.Outfit) (model.Outfit, error) {
	collection := f.client.Collection(outfitsCollection)
	ref := collection.NewDoc()
	if outfit.ID != "" {
		ref = collection.Doc(outfit.ID)
	}
	outfit.ID = ref.ID
	if outfit.CreatedAt.IsZero() {
		outfit.CreatedAt = f.now()
	}

	if _, err := ref.Set(ctx, outfit); err != nil {
		return model.Outfit{}, wrapFirestoreError(err)
	}
	return outfit, nil
}

func (f *firestoreOutfit) IsEmpty(ctx context.Context) (bool, error) {
	return isEmpty(ctx, f.client.Collection(outfitsCollection))
}

type firestoreVote struct {
	client *firestore.Client
	now    func() time.Time
}

func (f *firestoreVote) Cast(ctx context.Context, userID, outfitID string, upvote bool) (model.VoteTally, error) {
	userRef := f.client.Collection(usersCollection).Doc(userID)
	outfitRef := f.client.Collection(outfitsCollection).Doc(outfitID)

	var tally model.VoteTally
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		outfitSnap, err := tx.Get(outfitRef)
		if err != nil {
			return err
		}
		userSnap, err := tx.Get(userRef)
		if err != nil {
			return err
		}
		outfit, err := decodeOutfit(outfitSnap)
		if err != nil {
			return err
		}
		user, err := decodeUser(userSnap)
		if err != nil {
			return err
		}

		at := f.now()
		next, delta, action := user.Votes.Apply(userID, outfitID, upvote, at)

		if err := tx.Update(userRef, []firestore.Update{{Path: "votes", Value: next}}); err != nil {
			return err
		}
		if err := tx.Update(outfitRef, []firestore.Update{{Path: "voteCount", Value: firestore.Increment(delta)}}); err != nil {
			return err
		}

		tally = newTally(outfitID, next, delta, action, outfit.VoteCount+delta, at)
		return nil
	})
	if err != nil {
		return model.VoteTally{}, wrapFirestoreError(err)
	}
	return tally, nil
}

type firestoreWardrobe struct {
	client *firestore.Client
	now    func() time.Time
}

func (f *firestoreWardrobe) collection(userID string) *firestore.CollectionRef {
	return f.client.Collection(usersCollection).Doc(userID).Collection(wardrobeCollection)
}

func (f *firestoreWardrobe) List(ctx context.Context, userID, category string) ([]model.WardrobeItem, error) {
	query := f.collection(userID).Query
	if category != "" {
		query = query.Where("category", "==", category)
	}
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreError(err)
	}

	items := make([]model.WardrobeItem, 0, len(snaps))
	for _, snap := range snaps {
		var item model.WardrobeItem
		if err := snap.DataTo(&item); err != nil {
			return nil, wrapFirestoreError(err)
		}
		item.ID = snap.Ref.ID
		item.UserID = userID
		items = append(items, item)
	}
	sortWardrobe(items)
	return items, nil
}

func (f *firestoreWardrobe) Add(ctx context.Context, item model.WardrobeItem) (model.WardrobeItem, error) {
	userRef := f.client.Collection(usersCollection).Doc(item.UserID)
	ref := f.collection(item.UserID).NewDoc()
	if item.ID != "" {
		ref = f.collection(item.UserID).Doc(item.ID)
	}
	item.ID = ref.ID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = f.now()
	}

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(userRef); err != nil {
			return err
		}
		return tx.Create(ref, item)
	})
	if err != nil {
		return model.WardrobeItem{}, wrapFirestoreError(err)
	}
	return item, nil
}

func (f *firestoreWardrobe) Delete(ctx context.Context, userID, itemID string) error {
	if _, err := f.collection(userID).Doc(itemID).Delete(ctx); err != nil {
		return wrapFirestoreError(err)
	}
	return nil
}
