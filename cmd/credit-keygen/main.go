package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"merit-credit/go-backend/internal/identity"
)

// credit-keygen creates or inspects encrypted operator key files. The
// resulting identity is what credit_initialize expects as administrator and
// identity_register expects as a registered signer.
func main() {
	outPath := flag.String("out", "operator.key", "path for the encrypted key file")
	fromMnemonic := flag.String("mnemonic", "", "recover keys from an existing mnemonic instead of generating")
	inspect := flag.String("inspect", "", "print the identity stored in an existing key file and exit")
	showMnemonic := flag.Bool("show-mnemonic", false, "print the generated mnemonic to stdout")
	flag.Parse()

	password := strings.TrimSpace(os.Getenv("MERIT_KEY_PASSWORD"))
	if password == "" {
		log.Fatal("MERIT_KEY_PASSWORD is required")
	}

	if *inspect != "" {
		keys, err := identity.LoadKeyFile(*inspect, password)
		if err != nil {
			log.Fatalf("open key file: %v", err)
		}
		printIdentity(keys)
		return
	}

	var (
		mnemonic string
		keys     *identity.DerivedKeys
		err      error
	)
	if *fromMnemonic != "" {
		mnemonic = *fromMnemonic
		keys, err = identity.KeysFromMnemonic(mnemonic)
		if err != nil {
			log.Fatalf("recover keys: %v", err)
		}
	} else {
		mnemonic, keys, err = identity.CreateOperatorKey()
		if err != nil {
			log.Fatalf("generate keys: %v", err)
		}
	}

	if err := identity.SaveKeyFile(*outPath, password, mnemonic); err != nil {
		log.Fatalf("write key file: %v", err)
	}

	fmt.Printf("key file: %s\n", *outPath)
	printIdentity(keys)
	if *showMnemonic && *fromMnemonic == "" {
		fmt.Printf("mnemonic: %s\n", mnemonic)
	}
}

func printIdentity(keys *identity.DerivedKeys) {
	id, err := identity.BuildIdentityID(keys.SigningPublicKey)
	if err != nil {
		log.Fatalf("build identity: %v", err)
	}
	fmt.Printf("identity: %s\n", id)
}
