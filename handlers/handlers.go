package handlers

import (
	"net/http"

	"hirehelper-service/middleware"
	"hirehelper-service/models"
	"hirehelper-service/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerFrom vraća autentifikovanog korisnika; RequireAuth ga uvek postavlja
func callerFrom(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		return nil, utils.NewUnauthenticated("Not authorized")
	}
	return user, nil
}

func objectIDVar(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := mux.Vars(r)[name]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidation("Invalid "+name, name+" must be a valid object id")
	}
	return id, nil
}
