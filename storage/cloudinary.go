package storage

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional)

// UploadImage uploads raw image bytes to Cloudinary and returns the public
// URL, or "" on any failure. Failures are logged, never fatal: a listing is
// created with whatever subset of its images made it through.
func UploadImage(data []byte, publicID string) string {
	if len(data) == 0 {
		fmt.Printf("[cloudinary] skipping empty image %s\n", publicID)
		return ""
	}
	payload := base64.StdEncoding.EncodeToString(data)
	return uploadBase64(payload, publicID)
}

// UploadBase64Image accepts a base64 data URL (or raw base64) as sent by
// clients that pre-encode their images.
func UploadBase64Image(base64ImageSrc string, publicID string) string {
	if base64ImageSrc == "" {
		fmt.Printf("[cloudinary] skipping empty image %s\n", publicID)
		return ""
	}
	payload := base64ImageSrc
	if i := strings.Index(base64ImageSrc, ","); i != -1 {
		payload = base64ImageSrc[i+1:]
	}
	return uploadBase64(payload, publicID)
}

func uploadBase64(payload string, publicID string) string {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		fmt.Printf("[cloudinary] missing credentials, dropping upload %s\n", publicID)
		return ""
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	if finalPublicID != "" {
		form.Add("public_id", finalPublicID)
	}

	// Signed upload: SHA1 over the sorted params + secret
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Printf("[cloudinary] failed to build request: %v\n", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("[cloudinary] upload request failed: %v\n", err)
		return ""
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Printf("[cloudinary] failed to read response: %v\n", err)
		return ""
	}

	if res.StatusCode != http.StatusOK {
		fmt.Printf("[cloudinary] upload failed with status %d: %s\n", res.StatusCode, string(body))
		return ""
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		fmt.Printf("[cloudinary] failed to parse response: %v\n", err)
		return ""
	}
	if cloudRes.Error.Message != "" {
		fmt.Printf("[cloudinary] upload rejected: %s\n", cloudRes.Error.Message)
		return ""
	}

	out := cloudRes.SecureURL
	if out == "" {
		out = cloudRes.URL
	}
	return out
}

// IsCloudinaryURL reports whether an image reference already lives on
// Cloudinary and needs no re-upload.
func IsCloudinaryURL(image string) bool {
	return strings.Contains(image, "res.cloudinary.com")
}
