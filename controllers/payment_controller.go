package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/services"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Service *services.WebhookService
	Gateway services.PaymentGateway

	ShopID    string
	SecretKey string
}

func NewPaymentController(svc *services.WebhookService, gateway services.PaymentGateway, shopID, secretKey string) *PaymentController {
	return &PaymentController{Service: svc, Gateway: gateway, ShopID: shopID, SecretKey: secretKey}
}

// Webhook receives provider payment notifications. The raw body is read
// before parsing because the HMAC covers the exact bytes on the wire.
func (ctl *PaymentController) Webhook(c *gin.Context) {
	if !ctl.Gateway.IsConfigured() {
		resp.Unavailable(c, "payments are not configured")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	if !ctl.authenticate(c, body) {
		resp.Unauthorized(c, "webhook authentication failed")
		return
	}

	var event services.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		resp.BadRequest(c, "malformed notification")
		return
	}

	if err := ctl.Service.Process(&event); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"processed": true})
}

// authenticate accepts either an HMAC signature over the raw body or Basic
// auth with the shop credentials.
func (ctl *PaymentController) authenticate(c *gin.Context, body []byte) bool {
	if sig := c.GetHeader("X-Yookassa-Signature"); sig != "" {
		hexSig := strings.TrimPrefix(sig, "sha256=")
		want, err := hex.DecodeString(hexSig)
		if err != nil {
			return false
		}
		mac := hmac.New(sha256.New, []byte(ctl.SecretKey))
		mac.Write(body)
		return hmac.Equal(want, mac.Sum(nil))
	}

	auth := c.GetHeader("Authorization")
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(ctl.ShopID+":"+ctl.SecretKey))
	return auth != "" && auth == expected
}

// GetPaymentStatus is the public polling endpoint a customer lands on after
// the provider redirect.
func (ctl *PaymentController) GetPaymentStatus(c *gin.Context) {
	out, err := ctl.Service.LookupByPaymentID(c.Param("paymentId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}
