package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/auth"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage authentication clients",
	Long:  `Manage the clients allowed to import readings and update well metadata`,
}

var clientCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create new authentication client",
	Long:  `Create a new client with a generated HMAC secret and the given permissions`,
	RunE:  runClientCreate,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all authentication clients",
	Long:  `List all authentication clients with their configuration`,
	RunE:  runClientList,
}

var clientShowCmd = &cobra.Command{
	Use:           "show [client_id]",
	Short:         "Show specific client details",
	Long:          `Show detailed configuration for a specific client`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientShow,
	SilenceErrors: true,
}

var clientRevokeCmd = &cobra.Command{
	Use:           "revoke [client_id]",
	Short:         "Revoke client access (set active=false)",
	Long:          `Revoke client access by setting active status to false`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientRevoke,
	SilenceErrors: true,
}

var clientActivateCmd = &cobra.Command{
	Use:           "activate [client_id]",
	Short:         "Activate client access (set active=true)",
	Long:          `Activate client access by setting active status to true`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientActivate,
	SilenceErrors: true,
}

var clientRegenerateCmd = &cobra.Command{
	Use:           "regenerate [client_id]",
	Short:         "Regenerate client secret key",
	Long:          `Regenerate the HMAC secret key for a client`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientRegenerate,
	SilenceErrors: true,
}

var clientDeleteCmd = &cobra.Command{
	Use:           "delete [client_id]",
	Short:         "Delete client permanently",
	Long:          `Permanently delete client from configuration`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientDelete,
	SilenceErrors: true,
}

var clientReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload all clients from config file",
	Long:  `Reload all authentication clients from config file to memory cache`,
	RunE:  runClientReload,
}

var clientTokenCmd = &cobra.Command{
	Use:           "token [client_id]",
	Short:         "Issue a bearer token for testing",
	Long:          `Issue a signed JWT for a client, for testing the import and upsert endpoints`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClientToken,
	SilenceErrors: true,
}

// Command flags
var (
	clientName        string
	clientPermissions string
	forceDelete       bool
	tokenTTL          time.Duration
)

func init() {
	// Add subcommands
	clientCmd.AddCommand(clientCreateCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientRevokeCmd)
	clientCmd.AddCommand(clientActivateCmd)
	clientCmd.AddCommand(clientRegenerateCmd)
	clientCmd.AddCommand(clientDeleteCmd)
	clientCmd.AddCommand(clientReloadCmd)
	clientCmd.AddCommand(clientTokenCmd)

	// Create command flags
	clientCreateCmd.Flags().StringVarP(&clientName, "name", "n", "", "Client name (required)")
	clientCreateCmd.Flags().StringVarP(&clientPermissions, "permissions", "p", "create:readings,update:wells", "Comma-separated permissions")
	clientCreateCmd.MarkFlagRequired("name")

	// Delete command flags
	clientDeleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Force delete without confirmation")

	// Token command flags
	clientTokenCmd.Flags().DurationVarP(&tokenTTL, "ttl", "t", time.Hour, "Token lifetime")

	// Add to root command
	rootCmd.AddCommand(clientCmd)
}

// generateClientID generates a random client ID
func generateClientID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateSecretKey generates a secure random HS256 secret
func generateSecretKey() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// saveConfig saves the updated configuration to file
func saveConfig(cfg *config.Config) error {
	file, err := os.OpenFile(".config.json", os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open config file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	return nil
}

// runClientCreate creates a new authentication client
func runClientCreate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	// Parse permissions
	permissions := strings.Split(clientPermissions, ",")
	for i, perm := range permissions {
		permissions[i] = strings.TrimSpace(perm)
	}

	// Generate client ID and secret
	clientID := generateClientID()
	newClient := config.ClientConfig{
		ClientID:    clientID,
		ClientName:  clientName,
		SecretKey:   generateSecretKey(),
		Permissions: permissions,
		Active:      true,
	}

	// DUAL UPDATE: 1. Add to memory cache first
	if err := auth.AddClient(newClient); err != nil {
		return fmt.Errorf("failed to add client to memory cache: %v", err)
	}

	// DUAL UPDATE: 2. Add to config file
	cfg.Auth.Clients = append(cfg.Auth.Clients, newClient)
	if err := saveConfig(cfg); err != nil {
		// Rollback: remove from memory cache if config save fails
		auth.RemoveClient(clientID)
		return fmt.Errorf("failed to save config (rolled back memory cache): %v", err)
	}

	// Display result
	fmt.Printf("✅ Client created successfully!\n\n")
	fmt.Printf("Client ID:    %s\n", clientID)
	fmt.Printf("Client Name:  %s\n", clientName)
	fmt.Printf("Permissions:  %s\n", strings.Join(permissions, ", "))
	fmt.Printf("Status:       active\n")
	fmt.Printf("\n🔑 Secret Key: %s\n", newClient.SecretKey)
	fmt.Printf("\n⚠️  Save this secret key securely - it won't be shown again!\n")
	fmt.Printf("\n✨ Client is immediately active - no server restart required!\n")

	return nil
}

// runClientList lists all authentication clients
func runClientList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if len(cfg.Auth.Clients) == 0 {
		fmt.Println("No authentication clients configured.")
		return nil
	}

	fmt.Printf("Authentication Clients (%d total):\n\n", len(cfg.Auth.Clients))
	fmt.Printf("%-32s %-20s %-8s %-30s\n", "CLIENT ID", "NAME", "STATUS", "PERMISSIONS")
	fmt.Printf("%-32s %-20s %-8s %-30s\n",
		strings.Repeat("-", 32),
		strings.Repeat("-", 20),
		strings.Repeat("-", 8),
		strings.Repeat("-", 30))

	for _, client := range cfg.Auth.Clients {
		status := "active"
		if !client.Active {
			status = "revoked"
		}

		perms := strings.Join(client.Permissions, ",")
		if len(perms) > 30 {
			perms = perms[:27] + "..."
		}

		fmt.Printf("%-32s %-20s %-8s %-30s\n",
			client.ClientID,
			client.ClientName,
			status,
			perms)
	}

	return nil
}

// runClientShow shows detailed client information
func runClientShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	clientID := args[0]

	// Find client
	var client *config.ClientConfig
	for _, c := range cfg.Auth.Clients {
		if c.ClientID == clientID {
			client = &c
			break
		}
	}

	if client == nil {
		fmt.Printf("❌ Client not found: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	// Display client details
	fmt.Printf("Client Details:\n\n")
	fmt.Printf("Client ID:    %s\n", client.ClientID)
	fmt.Printf("Client Name:  %s\n", client.ClientName)
	fmt.Printf("Status:       %s\n", map[bool]string{true: "active", false: "revoked"}[client.Active])
	fmt.Printf("Permissions:  %s\n", strings.Join(client.Permissions, ", "))
	fmt.Printf("Secret Key:   %s****** (hidden)\n", client.SecretKey[:8])

	return nil
}

// runClientRevoke revokes client access
func runClientRevoke(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	clientID := args[0]

	// Find and update client
	found := false
	var updatedClient config.ClientConfig
	for i, client := range cfg.Auth.Clients {
		if client.ClientID == clientID {
			if !client.Active {
				fmt.Printf("Client %s (%s) is already revoked.\n", clientID, client.ClientName)
				return nil
			}
			cfg.Auth.Clients[i].Active = false
			updatedClient = cfg.Auth.Clients[i]
			found = true
			break
		}
	}

	if !found {
		fmt.Printf("❌ Client not found: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	// DUAL UPDATE: 1. Update memory cache
	if err := auth.UpdateClient(updatedClient); err != nil {
		return fmt.Errorf("failed to update client in memory cache: %v", err)
	}

	// DUAL UPDATE: 2. Save config file
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %v", err)
	}

	fmt.Printf("✅ Client %s access revoked successfully (immediate effect).\n", clientID)

	return nil
}

// runClientActivate activates client access
func runClientActivate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	clientID := args[0]

	// Find and update client
	found := false
	var updatedClient config.ClientConfig
	for i, client := range cfg.Auth.Clients {
		if client.ClientID == clientID {
			if client.Active {
				fmt.Printf("Client %s (%s) is already active.\n", clientID, client.ClientName)
				return nil
			}
			cfg.Auth.Clients[i].Active = true
			updatedClient = cfg.Auth.Clients[i]
			found = true
			break
		}
	}

	if !found {
		fmt.Printf("❌ Client not found: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	// DUAL UPDATE: 1. Update memory cache
	if err := auth.UpdateClient(updatedClient); err != nil {
		return fmt.Errorf("failed to update client in memory cache: %v", err)
	}

	// DUAL UPDATE: 2. Save config file
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %v", err)
	}

	fmt.Printf("✅ Client %s access activated successfully (immediate effect).\n", clientID)

	return nil
}

// runClientRegenerate regenerates client secret key
func runClientRegenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	clientID := args[0]

	// Find client
	found := false
	var updatedClient config.ClientConfig
	for i, client := range cfg.Auth.Clients {
		if client.ClientID == clientID {
			newSecretKey := generateSecretKey()
			cfg.Auth.Clients[i].SecretKey = newSecretKey
			updatedClient = cfg.Auth.Clients[i]
			found = true

			fmt.Printf("✅ Secret key regenerated for client %s (%s)\n\n", clientID, client.ClientName)
			fmt.Printf("🔑 New Secret Key: %s\n", newSecretKey)
			fmt.Printf("\n⚠️  Save this secret key securely - it won't be shown again!\n")
			break
		}
	}

	if !found {
		fmt.Printf("❌ Client not found: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	// DUAL UPDATE: 1. Update memory cache
	if err := auth.UpdateClient(updatedClient); err != nil {
		return fmt.Errorf("failed to update client in memory cache: %v", err)
	}

	// DUAL UPDATE: 2. Save config file
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %v", err)
	}

	fmt.Printf("\n✨ New secret key is immediately active - no server restart required!\n")

	return nil
}

// runClientDelete permanently deletes a client
func runClientDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	clientID := args[0]

	// Find client
	var clientIndex = -1
	var deletedName string
	for i, client := range cfg.Auth.Clients {
		if client.ClientID == clientID {
			clientIndex = i
			deletedName = client.ClientName
			break
		}
	}

	if clientIndex == -1 {
		fmt.Printf("❌ Client not found: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	// Confirmation unless force flag is used
	if !forceDelete {
		fmt.Printf("⚠️  Are you sure you want to permanently delete client %s (%s)? [y/N]: ", clientID, deletedName)
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(answer) != "y" && strings.ToLower(answer) != "yes" {
			fmt.Println("❌ Deletion cancelled.")
			return nil
		}
	}

	// DUAL UPDATE: 1. Remove from memory cache
	if err := auth.RemoveClient(clientID); err != nil {
		return fmt.Errorf("failed to remove client from memory cache: %v", err)
	}

	// DUAL UPDATE: 2. Remove from config file
	cfg.Auth.Clients = append(cfg.Auth.Clients[:clientIndex], cfg.Auth.Clients[clientIndex+1:]...)
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %v", err)
	}

	fmt.Printf("✅ Client %s (%s) deleted permanently (immediate effect).\n", clientID, deletedName)

	return nil
}

// runClientReload reloads all clients from config file
func runClientReload(cmd *cobra.Command, args []string) error {
	if err := auth.ReloadAuth(); err != nil {
		return fmt.Errorf("failed to reload authentication system: %v", err)
	}

	fmt.Printf("✅ Authentication system reloaded from config file successfully.\n")

	return nil
}

// runClientToken issues a signed JWT for testing authenticated endpoints
func runClientToken(cmd *cobra.Command, args []string) error {
	clientID := args[0]

	client, exists := auth.GetClientInfo(clientID)
	if !exists {
		fmt.Printf("❌ Client not found or inactive: %s\n", clientID)
		fmt.Printf("\nUse 'client list' to see all available clients.\n")
		return fmt.Errorf("client not found")
	}

	token, err := auth.GenerateToken(clientID, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate token: %v", err)
	}

	fmt.Printf("🔐 Token issued for %s (%s), valid %s\n\n", clientID, client.ClientName, tokenTTL)
	fmt.Printf("Authorization: Bearer %s\n", token)

	// Ready-to-use curl command
	fmt.Printf("\n📋 Ready-to-use curl command:\n")
	fmt.Printf("curl -s -X POST \\\n")
	fmt.Printf("  -H \"Authorization: Bearer %s\" \\\n", token)
	fmt.Printf("  -H \"Content-Type: application/json\" \\\n")
	fmt.Printf("  -d @readings.json \\\n")
	fmt.Printf("  \"http://localhost:%d/v1/datasets/default/readings/import\"\n", config.Get().App.Port)

	return nil
}
