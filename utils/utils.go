package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"
	"golang.org/x/crypto/bcrypt"
)

var generator *shortid.Shortid

type clientError struct {
	ID            string `json:"id"`
	MessageToUser string `json:"messageToUser"`
	DeveloperInfo string `json:"developerInfo"`
	Err           string `json:"error"`
	StatusCode    int    `json:"statusCode"`
	IsClientError bool   `json:"isClientError"`
}

func init() {
	n, err := shortid.New(workerID(), shortid.DefaultABC, uint64(time.Now().UnixNano()))
	if err != nil {
		logrus.Panicf("Failed to initialize utils package with error: %+v", err)
	}
	generator = n
}

// workerID spreads processes over shortid's 32 workers by host and pid, so
// replicas do not share a sequence.
func workerID() uint8 {
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s/%d", host, os.Getpid())
	return uint8(h.Sum32() % 32)
}

// ShortID returns a short url-safe id for log correlation.
func ShortID() (string, error) {
	return generator.Generate()
}

// ParseBody decodes a single JSON value from the request body into out.
func ParseBody(body io.Reader, out interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// EncodeJSONBody writes interface to the http.ResponseWriter
func EncodeJSONBody(resp http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(resp).Encode(data)
}

// RespondJSON sends the interface as a JSON
func RespondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		if err := EncodeJSONBody(w, body); err != nil {
			logrus.Errorf("Failed to respond JSON with error: %+v", err)
		}
	}
}

func newClientError(err error, statusCode int, messageToUser string, additionalInfoForDevs ...string) *clientError {
	additionalInfoJoined := ""
	for i, info := range additionalInfoForDevs {
		if i > 0 {
			additionalInfoJoined += "\n"
		}
		additionalInfoJoined += info
	}

	errorID, idErr := ShortID()
	if idErr != nil {
		logrus.Errorf("newClientError: failed to generate error id err = %v", idErr)
		errorID = uuid.NewString()
	}
	var errString string
	if err != nil {
		errString = err.Error()
	}
	return &clientError{
		ID:            errorID,
		MessageToUser: messageToUser,
		DeveloperInfo: additionalInfoJoined,
		Err:           errString,
		StatusCode:    statusCode,
		IsClientError: statusCode < http.StatusInternalServerError,
	}
}

// RespondError sends an error message to the API caller and logs the error.
// Server errors never echo the underlying error text to the caller.
func RespondError(w http.ResponseWriter, statusCode int, err error, messageToUser string, additionalInfoForDevs ...string) {
	clientErr := newClientError(err, statusCode, messageToUser, additionalInfoForDevs...)
	entry := logrus.WithFields(logrus.Fields{"errorId": clientErr.ID, "status": statusCode})
	if statusCode >= http.StatusInternalServerError {
		entry.Errorf("%s err = %v", messageToUser, err)
		clientErr.Err = ""
		clientErr.DeveloperInfo = ""
	} else {
		entry.Infof("%s err = %v", messageToUser, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := EncodeJSONBody(w, clientErr); err != nil {
		logrus.Errorf("Failed to send error to caller with error: %+v", err)
	}
}

// HashPassword returns the bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// CheckPassword checks if the provided password is correct or not
func CheckPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// LoadEnv loads KEY=VALUE pairs from path into the environment. A missing
// file is not an error; variables already set win.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		logrus.Debugf("LoadEnv: %s not found, using process environment", path)
		return nil
	}
	return err
}
