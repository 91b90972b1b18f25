package auth

import (
	"encoding/base64"
	"strconv"
)

// integrityToken derives the self-consistency token over the three fields it
// covers. It is an encoding, not a signature: it only catches one field
// changing independently of the others.
func integrityToken(userID int64, appValid bool, expiryDate *string) string {
	expiry := "null"
	if expiryDate != nil {
		expiry = *expiryDate
	}
	raw := strconv.FormatInt(userID, 10) + "_" + strconv.FormatBool(appValid) + "_" + expiry
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
