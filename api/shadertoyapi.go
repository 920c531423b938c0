package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

const defaultBaseURL = "https://www.shadertoy.com"

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "https://github.com/richinsley/goshaderhost")
	return t.Transport.RoundTrip(req)
}

// --- Structs for Shadertoy API Response ---

type ShadertoyResponse struct {
	Shader *Shader `json:"Shader"`
	Error  string  `json:"Error,omitempty"`
	IsAPI  bool    `json:"isAPI,omitempty"` // Indicates if this is an API response
}

type Shader struct {
	Info       ShaderInfo   `json:"info"`
	RenderPass []RenderPass `json:"renderpass"`
}

type ShaderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RenderPass struct {
	Inputs []Input `json:"inputs"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
}

type Input struct {
	Channel int    `json:"channel"`
	CType   string `json:"ctype"`
	Src     string `json:"src"`
}

// raw shader data is ever so slightly different from the API response.
type rawShaderResponse []rawShader

type rawShader struct {
	Info          ShaderInfo      `json:"info"`
	RawRenderPass []rawRenderPass `json:"renderpass"`
}

type rawRenderPass struct {
	Inputs []rawInput `json:"inputs"`
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
}

type rawInput struct {
	Filepath string `json:"filepath"`
	Type     string `json:"type"`
	Channel  int    `json:"channel"`
}

func rawShaderToShader(raw rawShader) *Shader {
	shader := &Shader{
		Info:       raw.Info,
		RenderPass: make([]RenderPass, len(raw.RawRenderPass)),
	}
	for i, rPass := range raw.RawRenderPass {
		shader.RenderPass[i] = RenderPass{
			Inputs: make([]Input, len(rPass.Inputs)),
			Code:   rPass.Code,
			Name:   rPass.Name,
			Type:   rPass.Type,
		}
		for j, inp := range rPass.Inputs {
			shader.RenderPass[i].Inputs[j] = Input{
				Channel: inp.Channel,
				CType:   inp.Type,
				Src:     inp.Filepath, // Use Filepath for raw inputs
			}
		}
	}
	return shader
}

// ShaderArgs holds the parts of a single-pass shader that can be hosted.
type ShaderArgs struct {
	ShaderCode string
	CommonCode string
	Title      string
	// Buffers and Inputs count what the shader needs beyond the image pass.
	Buffers int
	Inputs  int
}

// Complete reports whether the image pass can run without multi-pass
// buffers or input channels.
func (a *ShaderArgs) Complete() bool {
	return a.Buffers == 0 && a.Inputs == 0
}

// Client fetches shaders from shadertoy.com.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client using apikey, or the SHADERTOY_KEY environment
// variable when apikey is empty.
func NewClient(apikey string) *Client {
	if apikey == "" {
		apikey = os.Getenv("SHADERTOY_KEY")
	}
	return &Client{
		APIKey:  apikey,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Transport: &headerTransport{Transport: http.DefaultTransport},
		},
	}
}

// ShaderID extracts the shader ID from an ID or a shader page URL.
func ShaderID(idOrURL string) string {
	if strings.Contains(idOrURL, "/") {
		return path.Base(strings.TrimSuffix(idOrURL, "/"))
	}
	return idOrURL
}

// ShaderFromID fetches a shader's JSON data. Without an API key, or when the
// API refuses the shader, it falls back to the site's raw endpoint.
func (c *Client) ShaderFromID(idOrURL string) (*ShadertoyResponse, error) {
	shaderID := ShaderID(idOrURL)
	if shaderID == "" {
		return nil, fmt.Errorf("empty shader id")
	}

	if c.APIKey != "" {
		resp, err := c.apiShader(shaderID)
		if err != nil {
			return nil, err
		}
		if resp.Error == "" {
			if resp.Shader == nil {
				return nil, fmt.Errorf("invalid JSON response: 'Shader' key is missing")
			}
			resp.IsAPI = true
			return resp, nil
		}
		log.Printf("Warning: Shadertoy API error for %s: %s (is it public+api?)", shaderID, resp.Error)
	}

	rawData, err := c.rawShaderData(shaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw shader data for %s: %w", shaderID, err)
	}
	var rawResp rawShaderResponse
	if err := json.Unmarshal(rawData, &rawResp); err != nil {
		return nil, fmt.Errorf("failed to decode raw shader JSON: %w", err)
	}
	if len(rawResp) == 0 {
		return nil, fmt.Errorf("raw shader response is empty for %s", shaderID)
	}
	return &ShadertoyResponse{Shader: rawShaderToShader(rawResp[0])}, nil
}

func (c *Client) apiShader(shaderID string) (*ShadertoyResponse, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/shaders/%s", c.BaseURL, shaderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Add("key", c.APIKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to shadertoy API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load shader %s, status code: %d", shaderID, resp.StatusCode)
	}

	var shaderResp ShadertoyResponse
	if err := json.NewDecoder(resp.Body).Decode(&shaderResp); err != nil {
		return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
	}
	return &shaderResp, nil
}

// rawShaderData posts to the endpoint the shadertoy.com page itself uses.
func (c *Client) rawShaderData(shaderID string) ([]byte, error) {
	form := "s=" + url.QueryEscape(fmt.Sprintf(`{"shaders":["%s"]}`, shaderID))
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/shadertoy", strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://www.shadertoy.com")
	req.Header.Set("Referer", "https://www.shadertoy.com/browse")
	req.Header.Set("Accept", "*/*")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// ShaderArgsFromJSON extracts the image and common code from a response.
func ShaderArgsFromJSON(shaderData *ShadertoyResponse) (*ShaderArgs, error) {
	if shaderData.Shader == nil {
		return nil, fmt.Errorf("shader data must have a 'Shader' key")
	}
	args := &ShaderArgs{}
	hasImage := false
	for _, rPass := range shaderData.Shader.RenderPass {
		switch rPass.Type {
		case "image":
			args.ShaderCode = rPass.Code
			args.Inputs += len(rPass.Inputs)
			hasImage = true
		case "common":
			args.CommonCode = rPass.Code
		case "buffer":
			args.Buffers++
		default:
			log.Printf("Warning: unsupported render pass type: %s", rPass.Type)
			args.Buffers++
		}
	}
	if !hasImage {
		return nil, fmt.Errorf("shader has no image pass")
	}

	info := shaderData.Shader.Info
	args.Title = fmt.Sprintf(`"%s" by %s`, info.Name, info.Username)
	return args, nil
}
